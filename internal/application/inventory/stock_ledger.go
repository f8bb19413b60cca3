package inventory

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// maxReserveAttempts bounds the optimistic-lock retry loop for single
// reservations. Conflicts are transient; by the third attempt the stock is
// either there or it is not.
const maxReserveAttempts = 3

// Reservation is a (product, quantity) pair to reserve or release
type Reservation struct {
	ProductID uuid.UUID
	Quantity  int64
}

// ViewInvalidator drops cached product projections after a stock write so
// reads do not serve the pre-write quantity for a full cache TTL.
type ViewInvalidator interface {
	Invalidate(ctx context.Context, productID uuid.UUID)
}

// StockLedger is the sole mutator of product stock quantities.
// Reserve is an indivisible check-and-decrement: the quantity check and the
// write happen against the same optimistic-lock version, so two concurrent
// reservations can never both succeed against the same insufficient balance.
type StockLedger struct {
	products catalog.ProductRepository
	views    ViewInvalidator
	logger   *zap.Logger
}

// NewStockLedger creates a new StockLedger
func NewStockLedger(products catalog.ProductRepository, views ViewInvalidator, logger *zap.Logger) *StockLedger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockLedger{
		products: products,
		views:    views,
		logger:   logger,
	}
}

// Reserve atomically checks stock >= qty and decrements it, persisting the
// product with a version-checked write. A concurrent writer triggers a
// bounded retry against the fresh row.
func (l *StockLedger) Reserve(ctx context.Context, productID uuid.UUID, qty int64) error {
	var lastErr error
	for attempt := 0; attempt < maxReserveAttempts; attempt++ {
		err := reserveOn(ctx, l.products, productID, qty)
		if err == nil {
			l.invalidate(ctx, productID)
			return nil
		}
		if !shared.IsConcurrencyConflict(err) {
			return err
		}
		lastErr = err
		l.logger.Debug("stock reservation conflicted, retrying",
			zap.String("product_id", productID.String()),
			zap.Int("attempt", attempt+1),
		)
	}
	return lastErr
}

// Release atomically increments available stock by qty. Used on
// cancellation; by construction it can never drive stock negative.
func (l *StockLedger) Release(ctx context.Context, productID uuid.UUID, qty int64) error {
	var lastErr error
	for attempt := 0; attempt < maxReserveAttempts; attempt++ {
		err := releaseOn(ctx, l.products, productID, qty)
		if err == nil {
			l.invalidate(ctx, productID)
			return nil
		}
		if !shared.IsConcurrencyConflict(err) {
			return err
		}
		lastErr = err
	}
	return lastErr
}

// ReserveAll reserves every item of a batch against the repositories of an
// enclosing transaction. Any failure aborts the batch; the caller's
// transaction rollback restores the stock of items already decremented, so
// no partial reservation ever survives. Returns the loaded products keyed
// by id so callers can snapshot prices without a second read.
func (l *StockLedger) ReserveAll(ctx context.Context, repos TransactionalRepositories, items []Reservation) (map[uuid.UUID]*catalog.Product, error) {
	products := make(map[uuid.UUID]*catalog.Product, len(items))
	for _, item := range items {
		product, err := reserveAndLoad(ctx, repos.Products(), item.ProductID, item.Quantity)
		if err != nil {
			return nil, err
		}
		products[item.ProductID] = product
		l.invalidate(ctx, item.ProductID)
	}
	return products, nil
}

// ReleaseAll releases every item of a batch within an enclosing transaction
func (l *StockLedger) ReleaseAll(ctx context.Context, repos TransactionalRepositories, items []Reservation) error {
	for _, item := range items {
		if err := releaseOn(ctx, repos.Products(), item.ProductID, item.Quantity); err != nil {
			return err
		}
		l.invalidate(ctx, item.ProductID)
	}
	return nil
}

// invalidate drops the cached view of a product whose stock just changed.
// A dropped view on a rolled-back write costs nothing but a cache miss.
func (l *StockLedger) invalidate(ctx context.Context, productID uuid.UUID) {
	if l.views != nil {
		l.views.Invalidate(ctx, productID)
	}
}

func reserveOn(ctx context.Context, repo catalog.ProductRepository, productID uuid.UUID, qty int64) error {
	_, err := reserveAndLoad(ctx, repo, productID, qty)
	return err
}

func reserveAndLoad(ctx context.Context, repo catalog.ProductRepository, productID uuid.UUID, qty int64) (*catalog.Product, error) {
	product, err := repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := product.ReserveStock(qty); err != nil {
		return nil, err
	}
	if err := repo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func releaseOn(ctx context.Context, repo catalog.ProductRepository, productID uuid.UUID, qty int64) error {
	product, err := repo.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if err := product.ReleaseStock(qty); err != nil {
		return err
	}
	return repo.SaveWithLock(ctx, product)
}
