package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// MockCartRepository is a mock implementation of cart.Repository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) GetOrCreateForUser(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}


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

// stubViewCache is a minimal in-process ProductViewCache for tests
type stubViewCache struct {
	mu    sync.Mutex
	views map[uuid.UUID]ProductView
}

func newStubViewCache() *stubViewCache {
	return &stubViewCache{views: make(map[uuid.UUID]ProductView)}
}

func (s *stubViewCache) Get(_ context.Context, productID uuid.UUID) (*ProductView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	view, ok := s.views[productID]
	if !ok {
		return nil, false
	}
	return &view, true
}

func (s *stubViewCache) Set(_ context.Context, view ProductView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views[view.ID] = view
}

func (s *stubViewCache) Invalidate(_ context.Context, productID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.views, productID)
}

func testProduct(t *testing.T, name string, price int64, stock int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(name, "", decimal.NewFromInt(price), stock)
	require.NoError(t, err)
	return product
}

func TestService_GetCart(t *testing.T) {
	ctx := context.Background()

	t.Run("missing cart renders empty", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductRepository)
		userID := uuid.New()

		carts.On("FindByUser", ctx, userID).Return(nil, shared.ErrNotFound).Once()

		svc := NewService(carts, products, nil, nil)
		resp, err := svc.GetCart(ctx, userID)
		require.NoError(t, err)

		assert.Equal(t, userID, resp.UserID)
		assert.Empty(t, resp.Items)
		assert.True(t, resp.Subtotal.IsZero())
	})

	t.Run("resolves items to product views and sums effective prices", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductRepository)
		userID := uuid.New()

		product := testProduct(t, "Widget", 100, 10)
		discount := decimal.NewFromInt(80)
		require.NoError(t, product.SetDiscountedPrice(&discount))

		c, err := cart.NewCart(userID)
		require.NoError(t, err)
		_, err = c.AddItem(product.ID, 2)
		require.NoError(t, err)

		carts.On("FindByUser", ctx, userID).Return(c, nil).Once()
		products.On("FindByIDs", ctx, []uuid.UUID{product.ID}).Return([]catalog.Product{*product}, nil).Once()

		svc := NewService(carts, products, nil, nil)
		resp, err := svc.GetCart(ctx, userID)
		require.NoError(t, err)

		require.Len(t, resp.Items, 1)
		require.NotNil(t, resp.Items[0].Product)
		assert.Equal(t, "Widget", resp.Items[0].Product.Name)
		assert.True(t, resp.Items[0].LineTotal.Equal(decimal.NewFromInt(160)))
		assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(160)))
	})

	t.Run("vanished product renders the line without detail", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductRepository)
		userID := uuid.New()
		goneID := uuid.New()

		c, err := cart.NewCart(userID)
		require.NoError(t, err)
		_, err = c.AddItem(goneID, 1)
		require.NoError(t, err)

		carts.On("FindByUser", ctx, userID).Return(c, nil).Once()
		products.On("FindByIDs", ctx, []uuid.UUID{goneID}).Return([]catalog.Product{}, nil).Once()

		svc := NewService(carts, products, nil, nil)
		resp, err := svc.GetCart(ctx, userID)
		require.NoError(t, err)

		require.Len(t, resp.Items, 1)
		assert.Nil(t, resp.Items[0].Product)
		assert.True(t, resp.Items[0].LineTotal.IsZero())
		assert.True(t, resp.Subtotal.IsZero())
	})

	t.Run("serves views from the cache without a repository read", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductRepository)
		views := newStubViewCache()
		userID := uuid.New()

		product := testProduct(t, "Cached", 40, 5)
		views.Set(ctx, ToProductView(product))

		c, err := cart.NewCart(userID)
		require.NoError(t, err)
		_, err = c.AddItem(product.ID, 1)
		require.NoError(t, err)

		carts.On("FindByUser", ctx, userID).Return(c, nil).Once()

		svc := NewService(carts, products, views, nil)
		resp, err := svc.GetCart(ctx, userID)
		require.NoError(t, err)

		require.Len(t, resp.Items, 1)
		assert.Equal(t, "Cached", resp.Items[0].Product.Name)
		products.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
	})
}

func TestService_AddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("adds a line and persists the cart", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductRepository)
		views := newStubViewCache()
		userID := uuid.New()

		product := testProduct(t, "Widget", 100, 10)
		c, err := cart.NewCart(userID)
		require.NoError(t, err)

		products.On("FindByID", ctx, product.ID).Return(product, nil).Once()
		carts.On("GetOrCreateForUser", ctx, userID).Return(c, nil).Once()
		carts.On("Save", ctx, c).Return(nil).Once()

		svc := NewService(carts, products, views, nil)
		resp, err := svc.AddItem(ctx, userID, product.ID, 2)
		require.NoError(t, err)

		require.Len(t, resp.Items, 1)
		assert.Equal(t, int64(2), resp.Items[0].Quantity)
		// The write warms the view cache
		_, cached := views.Get(ctx, product.ID)
		assert.True(t, cached)
		carts.AssertExpectations(t)
	})

	t.Run("merges with a concurrent add after a version conflict", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductRepository)
		userID := uuid.New()
		product := testProduct(t, "Widget", 100, 10)

		// The loser's copy of the cart, loaded before the winner's add landed
		stale, err := cart.NewCart(userID)
		require.NoError(t, err)
		// The reloaded cart already holding the winner's line
		fresh, err := cart.NewCart(userID)
		require.NoError(t, err)
		_, err = fresh.AddItem(product.ID, 1)
		require.NoError(t, err)

		products.On("FindByID", ctx, product.ID).Return(product, nil).Once()
		carts.On("GetOrCreateForUser", ctx, userID).Return(stale, nil).Once()
		carts.On("Save", ctx, stale).Return(shared.ErrConcurrencyConflict).Once()
		carts.On("GetOrCreateForUser", ctx, userID).Return(fresh, nil).Once()
		carts.On("Save", ctx, fresh).Return(nil).Once()

		svc := NewService(carts, products, newStubViewCache(), nil)
		resp, err := svc.AddItem(ctx, userID, product.ID, 2)
		require.NoError(t, err)

		// Both adds survive: the retry merged into the winner's line
		require.Len(t, resp.Items, 1)
		assert.Equal(t, int64(3), resp.Items[0].Quantity)
		carts.AssertExpectations(t)
	})

	t.Run("gives up after bounded conflicting saves", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductRepository)
		userID := uuid.New()
		product := testProduct(t, "Widget", 100, 10)

		products.On("FindByID", ctx, product.ID).Return(product, nil).Once()
		for i := 0; i < maxSaveAttempts; i++ {
			c, err := cart.NewCart(userID)
			require.NoError(t, err)
			carts.On("GetOrCreateForUser", ctx, userID).Return(c, nil).Once()
			carts.On("Save", ctx, c).Return(shared.ErrConcurrencyConflict).Once()
		}

		svc := NewService(carts, products, nil, nil)
		_, err := svc.AddItem(ctx, userID, product.ID, 2)
		require.Error(t, err)
		assert.True(t, shared.IsConcurrencyConflict(err))
		carts.AssertExpectations(t)
	})

	t.Run("unknown product fails before touching the cart", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductRepository)
		productID := uuid.New()

		products.On("FindByID", ctx, productID).Return(nil, shared.ErrNotFound).Once()

		svc := NewService(carts, products, nil, nil)
		_, err := svc.AddItem(ctx, uuid.New(), productID, 1)
		require.Error(t, err)
		assert.True(t, shared.IsNotFound(err))
		carts.AssertNotCalled(t, "GetOrCreateForUser", mock.Anything, mock.Anything)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductRepository)
		product := testProduct(t, "Widget", 100, 10)
		userID := uuid.New()

		c, err := cart.NewCart(userID)
		require.NoError(t, err)

		products.On("FindByID", ctx, product.ID).Return(product, nil).Once()
		carts.On("GetOrCreateForUser", ctx, userID).Return(c, nil).Once()

		svc := NewService(carts, products, nil, nil)
		_, err = svc.AddItem(ctx, userID, product.ID, 0)
		require.Error(t, err)
		carts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestService_UpdateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the quantity", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductRepository)
		userID := uuid.New()
		product := testProduct(t, "Widget", 100, 10)

		c, err := cart.NewCart(userID)
		require.NoError(t, err)
		item, err := c.AddItem(product.ID, 2)
		require.NoError(t, err)

		carts.On("FindByUser", ctx, userID).Return(c, nil).Once()
		carts.On("Save", ctx, c).Return(nil).Once()
		products.On("FindByIDs", ctx, []uuid.UUID{product.ID}).Return([]catalog.Product{*product}, nil).Once()

		svc := NewService(carts, products, nil, nil)
		resp, err := svc.UpdateItem(ctx, userID, item.ID, 5)
		require.NoError(t, err)

		assert.Equal(t, int64(5), resp.Items[0].Quantity)
	})

	t.Run("unknown item is not found", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductRepository)
		userID := uuid.New()

		c, err := cart.NewCart(userID)
		require.NoError(t, err)
		carts.On("FindByUser", ctx, userID).Return(c, nil).Once()

		svc := NewService(carts, products, nil, nil)
		_, err = svc.UpdateItem(ctx, userID, uuid.New(), 5)
		require.Error(t, err)
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestService_RemoveItem(t *testing.T) {
	ctx := context.Background()

	carts := new(MockCartRepository)
	products := new(MockProductRepository)
	userID := uuid.New()

	c, err := cart.NewCart(userID)
	require.NoError(t, err)
	item, err := c.AddItem(uuid.New(), 2)
	require.NoError(t, err)

	carts.On("FindByUser", ctx, userID).Return(c, nil).Once()
	carts.On("Save", ctx, c).Return(nil).Once()

	svc := NewService(carts, products, nil, nil)
	resp, err := svc.RemoveItem(ctx, userID, item.ID)
	require.NoError(t, err)

	assert.Empty(t, resp.Items)
	carts.AssertExpectations(t)
}

func TestService_Clear(t *testing.T) {
	ctx := context.Background()

	t.Run("empties an existing cart", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductRepository)
		userID := uuid.New()

		c, err := cart.NewCart(userID)
		require.NoError(t, err)
		_, err = c.AddItem(uuid.New(), 2)
		require.NoError(t, err)

		carts.On("FindByUser", ctx, userID).Return(c, nil).Once()
		carts.On("Save", ctx, c).Return(nil).Once()

		svc := NewService(carts, products, nil, nil)
		resp, err := svc.Clear(ctx, userID)
		require.NoError(t, err)

		assert.Empty(t, resp.Items)
		assert.True(t, c.IsEmpty())
	})

	t.Run("clearing a missing cart is a no-op", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductRepository)
		userID := uuid.New()

		carts.On("FindByUser", ctx, userID).Return(nil, shared.ErrNotFound).Once()

		svc := NewService(carts, products, nil, nil)
		resp, err := svc.Clear(ctx, userID)
		require.NoError(t, err)

		assert.Empty(t, resp.Items)
		carts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
