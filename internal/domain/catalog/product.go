package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// Product represents a sellable item in the catalog.
// It is the aggregate root for product-related operations; the stock
// quantity is mutated only through ReserveStock/ReleaseStock so the
// non-negative invariant holds everywhere.
type Product struct {
	shared.BaseAggregateRoot
	Name            string           `gorm:"type:varchar(200);not null"`
	Description     string           `gorm:"type:text"`
	Price           decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountedPrice *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Image           string           `gorm:"type:varchar(500)"`
	CategoryID      *uuid.UUID       `gorm:"type:uuid;index"`
	Stock           int64            `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name, description string, price decimal.Decimal, stock int64) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		Price:             price,
		Stock:             stock,
	}, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetPrice sets the base price
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	p.Price = price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetDiscountedPrice sets an optional promotional price.
// Passing nil clears the discount.
func (p *Product) SetDiscountedPrice(price *decimal.Decimal) error {
	if price != nil {
		if price.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Discounted price cannot be negative")
		}
		if price.GreaterThan(p.Price) {
			return shared.NewDomainError("INVALID_PRICE", "Discounted price cannot exceed base price")
		}
	}

	p.DiscountedPrice = price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetImage sets the product image URL
func (p *Product) SetImage(image string) error {
	if len(image) > 500 {
		return shared.NewDomainError("INVALID_IMAGE", "Image URL cannot exceed 500 characters")
	}

	p.Image = image
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetCategory sets the product category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// EffectivePrice returns the price a buyer actually pays:
// the discounted price when one is set, the base price otherwise.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountedPrice != nil {
		return *p.DiscountedPrice
	}
	return p.Price
}

// HasStock reports whether at least qty units are available
func (p *Product) HasStock(qty int64) bool {
	return p.Stock >= qty
}

// ReserveStock decrements available stock by qty.
// The caller must persist the product with a version-checked write so two
// concurrent reservations cannot both succeed against the same balance.
func (p *Product) ReserveStock(qty int64) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if p.Stock < qty {
		return shared.NewInsufficientStockError(p.Name)
	}

	p.Stock -= qty
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// ReleaseStock returns qty units to available stock (cancellation path)
func (p *Product) ReleaseStock(qty int64) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	p.Stock += qty
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// HasCategory returns true if the product has a category assigned
func (p *Product) HasCategory() bool {
	return p.CategoryID != nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
