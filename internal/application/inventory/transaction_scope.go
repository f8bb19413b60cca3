package inventory

import (
	"context"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
)

// TransactionScope provides transactional access to the repositories the
// order engine touches. When a function is executed within a scope, all
// repository operations are part of the same database transaction and commit
// or roll back atomically, so multi-item reservation is all-or-nothing.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to repositories scoped to the
// current transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	Products() catalog.ProductRepository
	Orders() order.Repository
	Carts() cart.Repository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests with mock repositories.
type NoOpTransactionScope struct {
	products catalog.ProductRepository
	orders   order.Repository
	carts    cart.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	products catalog.ProductRepository,
	orders order.Repository,
	carts cart.Repository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		products: products,
		orders:   orders,
		carts:    carts,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Products returns the product repository
func (s *NoOpTransactionScope) Products() catalog.ProductRepository {
	return s.products
}

// Orders returns the order repository
func (s *NoOpTransactionScope) Orders() order.Repository {
	return s.orders
}

// Carts returns the cart repository
func (s *NoOpTransactionScope) Carts() cart.Repository {
	return s.carts
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
