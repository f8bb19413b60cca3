package address

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// Address is a deliverable shipping address owned by a user.
// The order engine treats it as opaque: it stores the reference and resolves
// the record only for display.
type Address struct {
	shared.BaseAggregateRoot
	UserID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name    string    `gorm:"type:varchar(100);not null"`
	Street  string    `gorm:"type:varchar(200);not null"`
	City    string    `gorm:"type:varchar(100);not null"`
	State   string    `gorm:"type:varchar(100);not null"`
	Country string    `gorm:"type:varchar(100);not null"`
	Zip     string    `gorm:"type:varchar(20);not null"`
	Phone   string    `gorm:"type:varchar(30);not null"`
}

// TableName returns the table name for GORM
func (Address) TableName() string {
	return "addresses"
}

// NewAddress creates a new address for a user
func NewAddress(userID uuid.UUID, name, street, city, state, country, zip, phone string) (*Address, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	for field, value := range map[string]string{
		"name": name, "street": street, "city": city,
		"state": state, "country": country, "zip": zip, "phone": phone,
	} {
		if value == "" {
			return nil, shared.NewDomainError("INVALID_ADDRESS", "Address "+field+" is required")
		}
	}

	return &Address{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Name:              name,
		Street:            street,
		City:              city,
		State:             state,
		Country:           country,
		Zip:               zip,
		Phone:             phone,
	}, nil
}

// Update replaces the address fields
func (a *Address) Update(name, street, city, state, country, zip, phone string) error {
	for field, value := range map[string]string{
		"name": name, "street": street, "city": city,
		"state": state, "country": country, "zip": zip, "phone": phone,
	} {
		if value == "" {
			return shared.NewDomainError("INVALID_ADDRESS", "Address "+field+" is required")
		}
	}

	a.Name = name
	a.Street = street
	a.City = city
	a.State = state
	a.Country = country
	a.Zip = zip
	a.Phone = phone
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// IsOwnedBy reports whether the address belongs to the given user
func (a *Address) IsOwnedBy(userID uuid.UUID) bool {
	return a.UserID == userID
}

// Repository defines persistence operations for addresses
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Address, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Address, error)
	Save(ctx context.Context, a *Address) error
	Delete(ctx context.Context, id uuid.UUID) error
}
