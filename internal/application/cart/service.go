package cart

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// maxSaveAttempts bounds the retry loop for version-checked cart saves.
// Conflicts come from the same user racing their own requests, so they
// resolve within an attempt or two.
const maxSaveAttempts = 3

// ProductViewCache caches the read-side product projection used when
// rendering carts. Implementations must tolerate unavailability: a miss or a
// failed set degrades to a repository read, never to an error.
type ProductViewCache interface {
	Get(ctx context.Context, productID uuid.UUID) (*ProductView, bool)
	Set(ctx context.Context, view ProductView)
	Invalidate(ctx context.Context, productID uuid.UUID)
}

// Service holds the shopping cart use cases. All mutation paths load the
// cart through GetOrCreateForUser so a user's first write creates the cart
// implicitly.
type Service struct {
	carts    cart.Repository
	products catalog.ProductRepository
	views    ProductViewCache
	logger   *zap.Logger
}

func NewService(carts cart.Repository, products catalog.ProductRepository, views ProductViewCache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		carts:    carts,
		products: products,
		views:    views,
		logger:   logger,
	}
}

// GetCart returns the user's cart with every line item resolved to the
// current product view. A user with no cart yet gets an empty view.
func (s *Service) GetCart(ctx context.Context, userID uuid.UUID) (*Response, error) {
	c, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return s.emptyResponse(userID)
		}
		return nil, err
	}

	views, err := s.resolveViews(ctx, c)
	if err != nil {
		return nil, err
	}

	resp := toResponse(c, views)
	return &resp, nil
}

// AddItem puts quantity units of the product into the cart, merging with an
// existing line for the same product. The product must exist in the catalog.
// Two racing adds both land: the loser of the version check reloads the cart
// and merges into the winner's line.
func (s *Service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int64) (*Response, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	c, err := s.mutate(ctx, userID, s.carts.GetOrCreateForUser, func(c *cart.Cart) error {
		_, err := c.AddItem(productID, quantity)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("cart item added",
		zap.String("user_id", userID.String()),
		zap.String("product_id", productID.String()),
		zap.Int64("quantity", quantity))

	s.cacheView(ctx, product)
	return s.respond(ctx, c)
}

// UpdateItem replaces the quantity of a cart line identified by item id.
func (s *Service) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int64) (*Response, error) {
	c, err := s.mutate(ctx, userID, s.carts.FindByUser, func(c *cart.Cart) error {
		return c.UpdateItemQuantity(itemID, quantity)
	})
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, c)
}

// RemoveItem deletes a line from the cart.
func (s *Service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*Response, error) {
	c, err := s.mutate(ctx, userID, s.carts.FindByUser, func(c *cart.Cart) error {
		return c.RemoveItem(itemID)
	})
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, c)
}

// Clear empties the cart. Clearing a cart that does not exist is a no-op.
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) (*Response, error) {
	c, err := s.mutate(ctx, userID, s.carts.FindByUser, func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
	if err != nil {
		if shared.IsNotFound(err) {
			return s.emptyResponse(userID)
		}
		return nil, err
	}

	resp := toResponse(c, nil)
	return &resp, nil
}

// mutate loads the cart, applies the change and saves it with the version
// check, retrying a bounded number of times when a concurrent writer bumped
// the version first. Each retry reapplies the change to the fresh cart.
func (s *Service) mutate(
	ctx context.Context,
	userID uuid.UUID,
	load func(ctx context.Context, userID uuid.UUID) (*cart.Cart, error),
	apply func(c *cart.Cart) error,
) (*cart.Cart, error) {
	var lastErr error
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		c, err := load(ctx, userID)
		if err != nil {
			return nil, err
		}
		if err := apply(c); err != nil {
			return nil, err
		}

		err = s.carts.Save(ctx, c)
		if err == nil {
			return c, nil
		}
		if !shared.IsConcurrencyConflict(err) {
			return nil, err
		}
		lastErr = err
		s.logger.Debug("cart save conflicted, retrying",
			zap.String("user_id", userID.String()),
			zap.Int("attempt", attempt+1))
	}
	return nil, lastErr
}

func (s *Service) emptyResponse(userID uuid.UUID) (*Response, error) {
	empty, err := cart.NewCart(userID)
	if err != nil {
		return nil, err
	}
	resp := toResponse(empty, nil)
	return &resp, nil
}

func (s *Service) respond(ctx context.Context, c *cart.Cart) (*Response, error) {
	views, err := s.resolveViews(ctx, c)
	if err != nil {
		return nil, err
	}
	resp := toResponse(c, views)
	return &resp, nil
}

// resolveViews maps every cart line to its product view, drawing from the
// cache first and batch-loading the misses. Products deleted since the item
// was added are simply absent from the result.
func (s *Service) resolveViews(ctx context.Context, c *cart.Cart) (map[uuid.UUID]ProductView, error) {
	if len(c.Items) == 0 {
		return nil, nil
	}

	views := make(map[uuid.UUID]ProductView, len(c.Items))
	var missing []uuid.UUID
	for _, item := range c.Items {
		if s.views != nil {
			if view, ok := s.views.Get(ctx, item.ProductID); ok {
				views[item.ProductID] = *view
				continue
			}
		}
		missing = append(missing, item.ProductID)
	}

	if len(missing) > 0 {
		products, err := s.products.FindByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for idx := range products {
			p := &products[idx]
			views[p.ID] = ToProductView(p)
			s.cacheView(ctx, p)
		}
	}

	return views, nil
}

func (s *Service) cacheView(ctx context.Context, p *catalog.Product) {
	if s.views == nil {
		return
	}
	s.views.Set(ctx, ToProductView(p))
}
