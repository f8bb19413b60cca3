package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/address"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormAddressRepository implements address.Repository using GORM
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// FindByID finds an address by its ID
func (r *GormAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*address.Address, error) {
	var addr address.Address
	if err := r.db.WithContext(ctx).First(&addr, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &addr, nil
}

// FindByUser finds all addresses owned by a user
func (r *GormAddressRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]address.Address, error) {
	var addrs []address.Address
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&addrs).Error; err != nil {
		return nil, err
	}
	return addrs, nil
}

// Save creates or updates an address
func (r *GormAddressRepository) Save(ctx context.Context, a *address.Address) error {
	return r.db.WithContext(ctx).Save(a).Error
}

// Delete deletes an address
func (r *GormAddressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&address.Address{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ address.Repository = (*GormAddressRepository)(nil)
