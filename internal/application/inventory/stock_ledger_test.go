package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, categoryID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveBatch(ctx context.Context, products []*catalog.Product) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockViewInvalidator records product view cache invalidations
type MockViewInvalidator struct {
	mock.Mock
}

func (m *MockViewInvalidator) Invalidate(ctx context.Context, productID uuid.UUID) {
	m.Called(ctx, productID)
}

func newTestProduct(t *testing.T, name string, stock int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(name, "", decimal.NewFromInt(100), stock)
	require.NoError(t, err)
	return product
}

func TestStockLedger_Reserve(t *testing.T) {
	ctx := context.Background()

	t.Run("reserves and persists with lock", func(t *testing.T) {
		repo := new(MockProductRepository)
		product := newTestProduct(t, "Widget", 10)

		repo.On("FindByID", ctx, product.ID).Return(product, nil).Once()
		repo.On("SaveWithLock", ctx, product).Return(nil).Once()

		ledger := NewStockLedger(repo, nil, nil)
		require.NoError(t, ledger.Reserve(ctx, product.ID, 4))

		assert.Equal(t, int64(6), product.Stock)
		repo.AssertExpectations(t)
	})

	t.Run("retries on concurrency conflict", func(t *testing.T) {
		repo := new(MockProductRepository)
		productID := uuid.New()
		stale := newTestProduct(t, "Widget", 10)
		stale.ID = productID
		fresh := newTestProduct(t, "Widget", 8)
		fresh.ID = productID

		repo.On("FindByID", ctx, productID).Return(stale, nil).Once()
		repo.On("SaveWithLock", ctx, stale).Return(shared.ErrConcurrencyConflict).Once()
		repo.On("FindByID", ctx, productID).Return(fresh, nil).Once()
		repo.On("SaveWithLock", ctx, fresh).Return(nil).Once()

		ledger := NewStockLedger(repo, nil, nil)
		require.NoError(t, ledger.Reserve(ctx, productID, 4))

		assert.Equal(t, int64(4), fresh.Stock)
		repo.AssertExpectations(t)
	})

	t.Run("gives up after bounded attempts", func(t *testing.T) {
		repo := new(MockProductRepository)
		productID := uuid.New()

		for i := 0; i < maxReserveAttempts; i++ {
			p := newTestProduct(t, "Widget", 10)
			p.ID = productID
			repo.On("FindByID", ctx, productID).Return(p, nil).Once()
			repo.On("SaveWithLock", ctx, p).Return(shared.ErrConcurrencyConflict).Once()
		}

		ledger := NewStockLedger(repo, nil, nil)
		err := ledger.Reserve(ctx, productID, 4)
		require.Error(t, err)
		assert.True(t, shared.IsConcurrencyConflict(err))
		repo.AssertExpectations(t)
	})

	t.Run("insufficient stock names the product", func(t *testing.T) {
		repo := new(MockProductRepository)
		product := newTestProduct(t, "Rare Widget", 2)

		repo.On("FindByID", ctx, product.ID).Return(product, nil).Once()

		ledger := NewStockLedger(repo, nil, nil)
		err := ledger.Reserve(ctx, product.ID, 5)
		require.Error(t, err)
		assert.True(t, shared.IsInsufficientStock(err))
		assert.Contains(t, err.Error(), "Rare Widget")
		repo.AssertExpectations(t)
	})

	t.Run("drops the cached view after a successful write", func(t *testing.T) {
		repo := new(MockProductRepository)
		views := new(MockViewInvalidator)
		product := newTestProduct(t, "Widget", 10)

		repo.On("FindByID", ctx, product.ID).Return(product, nil).Once()
		repo.On("SaveWithLock", ctx, product).Return(nil).Once()
		views.On("Invalidate", ctx, product.ID).Once()

		ledger := NewStockLedger(repo, views, nil)
		require.NoError(t, ledger.Reserve(ctx, product.ID, 4))

		views.AssertExpectations(t)
	})

	t.Run("keeps the cached view when the reservation fails", func(t *testing.T) {
		repo := new(MockProductRepository)
		views := new(MockViewInvalidator)
		product := newTestProduct(t, "Widget", 2)

		repo.On("FindByID", ctx, product.ID).Return(product, nil).Once()

		ledger := NewStockLedger(repo, views, nil)
		require.Error(t, ledger.Reserve(ctx, product.ID, 5))

		views.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	})

	t.Run("propagates not found", func(t *testing.T) {
		repo := new(MockProductRepository)
		productID := uuid.New()

		repo.On("FindByID", ctx, productID).Return(nil, shared.ErrNotFound).Once()

		ledger := NewStockLedger(repo, nil, nil)
		err := ledger.Reserve(ctx, productID, 1)
		require.Error(t, err)
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestStockLedger_Release(t *testing.T) {
	ctx := context.Background()

	t.Run("returns stock to the balance", func(t *testing.T) {
		repo := new(MockProductRepository)
		product := newTestProduct(t, "Widget", 6)

		repo.On("FindByID", ctx, product.ID).Return(product, nil).Once()
		repo.On("SaveWithLock", ctx, product).Return(nil).Once()

		ledger := NewStockLedger(repo, nil, nil)
		require.NoError(t, ledger.Release(ctx, product.ID, 4))

		assert.Equal(t, int64(10), product.Stock)
		repo.AssertExpectations(t)
	})
}

func TestStockLedger_ReserveAll(t *testing.T) {
	ctx := context.Background()

	t.Run("reserves every line and returns loaded products", func(t *testing.T) {
		repo := new(MockProductRepository)
		first := newTestProduct(t, "First", 10)
		second := newTestProduct(t, "Second", 5)

		repo.On("FindByID", ctx, first.ID).Return(first, nil).Once()
		repo.On("SaveWithLock", ctx, first).Return(nil).Once()
		repo.On("FindByID", ctx, second.ID).Return(second, nil).Once()
		repo.On("SaveWithLock", ctx, second).Return(nil).Once()

		scope := NewNoOpTransactionScope(repo, nil, nil)
		ledger := NewStockLedger(repo, nil, nil)

		products, err := ledger.ReserveAll(ctx, scope, []Reservation{
			{ProductID: first.ID, Quantity: 3},
			{ProductID: second.ID, Quantity: 5},
		})
		require.NoError(t, err)

		assert.Equal(t, int64(7), products[first.ID].Stock)
		assert.Equal(t, int64(0), products[second.ID].Stock)
		repo.AssertExpectations(t)
	})

	t.Run("one short line fails the whole batch", func(t *testing.T) {
		repo := new(MockProductRepository)
		first := newTestProduct(t, "First", 10)
		short := newTestProduct(t, "Short", 1)

		repo.On("FindByID", ctx, first.ID).Return(first, nil).Once()
		repo.On("SaveWithLock", ctx, first).Return(nil).Once()
		repo.On("FindByID", ctx, short.ID).Return(short, nil).Once()

		scope := NewNoOpTransactionScope(repo, nil, nil)
		ledger := NewStockLedger(repo, nil, nil)

		_, err := ledger.ReserveAll(ctx, scope, []Reservation{
			{ProductID: first.ID, Quantity: 3},
			{ProductID: short.ID, Quantity: 2},
		})
		require.Error(t, err)
		assert.True(t, shared.IsInsufficientStock(err))
		assert.Contains(t, err.Error(), "Short")
		repo.AssertExpectations(t)
	})
}

func TestStockLedger_ReleaseAll(t *testing.T) {
	ctx := context.Background()

	repo := new(MockProductRepository)
	views := new(MockViewInvalidator)
	first := newTestProduct(t, "First", 0)
	second := newTestProduct(t, "Second", 2)

	repo.On("FindByID", ctx, first.ID).Return(first, nil).Once()
	repo.On("SaveWithLock", ctx, first).Return(nil).Once()
	repo.On("FindByID", ctx, second.ID).Return(second, nil).Once()
	repo.On("SaveWithLock", ctx, second).Return(nil).Once()
	views.On("Invalidate", ctx, first.ID).Once()
	views.On("Invalidate", ctx, second.ID).Once()

	scope := NewNoOpTransactionScope(repo, nil, nil)
	ledger := NewStockLedger(repo, views, nil)

	require.NoError(t, ledger.ReleaseAll(ctx, scope, []Reservation{
		{ProductID: first.ID, Quantity: 3},
		{ProductID: second.ID, Quantity: 1},
	}))

	assert.Equal(t, int64(3), first.Stock)
	assert.Equal(t, int64(3), second.Stock)
	repo.AssertExpectations(t)
	views.AssertExpectations(t)
}
