package cart

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for carts.
// Implementations must apply Save as a single transactional write over the
// cart row and its items, so concurrent tabs for the same user serialize
// instead of losing increments.
type Repository interface {
	// FindByUser returns the user's cart with items loaded,
	// or shared.ErrNotFound when the user has no cart yet.
	FindByUser(ctx context.Context, userID uuid.UUID) (*Cart, error)
	// GetOrCreateForUser returns the user's cart, creating an empty one
	// when none exists.
	GetOrCreateForUser(ctx context.Context, userID uuid.UUID) (*Cart, error)
	// Save persists the cart and reconciles its items: items present on the
	// aggregate are upserted, items removed from it are deleted.
	Save(ctx context.Context, c *Cart) error
}
