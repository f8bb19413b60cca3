package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// Repository defines persistence operations for orders
type Repository interface {
	// FindByID returns the order with items loaded,
	// or shared.ErrNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Save persists the order and its items.
	Save(ctx context.Context, o *Order) error
	// Delete removes the order row and every line item attached to it.
	// Used only by the cancellation path.
	Delete(ctx context.Context, id uuid.UUID) error
}
