package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormCartRepository implements cart.Repository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByUser returns the user's cart with items loaded
func (r *GormCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	var c cart.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&c, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetOrCreateForUser returns the user's cart, creating an empty one when
// none exists. The unique index on user_id makes concurrent creation safe:
// the losing insert is ignored and the winner's row is read back.
func (r *GormCartRepository) GetOrCreateForUser(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	c, err := r.FindByUser(ctx, userID)
	if err == nil {
		return c, nil
	}
	if !shared.IsNotFound(err) {
		return nil, err
	}

	fresh, err := cart.NewCart(userID)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(fresh).Error; err != nil {
		return nil, err
	}

	return r.FindByUser(ctx, userID)
}

// Save persists the cart and reconciles its items in one transaction:
// items on the aggregate are upserted, items no longer on it are deleted.
// The cart row is written with a version check; losing it means a concurrent
// writer changed the cart since it was loaded, and none of the item writes
// happen. That closes the window where two first-adds of the same product
// would collide on the (cart_id, product_id) unique index.
func (r *GormCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&cart.Cart{}).
			Where("id = ? AND version = ?", c.ID, c.Version-1).
			Updates(map[string]interface{}{
				"version":    c.Version,
				"updated_at": c.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		if len(c.Items) == 0 {
			return tx.Where("cart_id = ?", c.ID).Delete(&cart.CartItem{}).Error
		}

		currentItemIDs := make([]uuid.UUID, len(c.Items))
		for i, item := range c.Items {
			currentItemIDs[i] = item.ID
		}
		if err := tx.Where("cart_id = ? AND id NOT IN ?", c.ID, currentItemIDs).
			Delete(&cart.CartItem{}).Error; err != nil {
			return err
		}

		for i := range c.Items {
			c.Items[i].CartID = c.ID
			if err := tx.Save(&c.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

var _ cart.Repository = (*GormCartRepository)(nil)
