package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// CartItem is a mutable (product, quantity) pairing owned by a cart.
// A cart holds at most one item per distinct product; repeated additions
// merge into the existing item.
type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CartID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity  int64     `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// Cart is a user's pre-checkout collection of line items.
// Exactly one cart exists per user; it is created lazily on first add.
// Every mutation bumps the aggregate version so saves can be
// version-checked against concurrent writers.
type Cart struct {
	shared.BaseAggregateRoot
	UserID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	Items  []CartItem `gorm:"foreignKey:CartID"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// NewCart creates an empty cart for the given user
func NewCart(userID uuid.UUID) (*Cart, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}

	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Items:             make([]CartItem, 0),
	}, nil
}

// AddItem adds qty units of a product to the cart. When an item for the
// product already exists its quantity is incremented, so the cart never
// holds two lines for the same product.
func (c *Cart) AddItem(productID uuid.UUID, qty int64) (*CartItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if qty <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	now := time.Now()
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			c.Items[idx].Quantity += qty
			c.Items[idx].UpdatedAt = now
			c.UpdatedAt = now
			c.IncrementVersion()
			return &c.Items[idx], nil
		}
	}

	item := CartItem{
		ID:        uuid.New(),
		CartID:    c.ID,
		ProductID: productID,
		Quantity:  qty,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.Items = append(c.Items, item)
	c.UpdatedAt = now
	c.IncrementVersion()

	return &c.Items[len(c.Items)-1], nil
}

// UpdateItemQuantity overwrites the stored quantity of an item
// (replace, not add).
func (c *Cart) UpdateItemQuantity(itemID uuid.UUID, qty int64) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			now := time.Now()
			c.Items[idx].Quantity = qty
			c.Items[idx].UpdatedAt = now
			c.UpdatedAt = now
			c.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("NOT_FOUND", "Cart item not found")
}

// RemoveItem detaches an item from the cart.
// Removing an absent item is NotFound, never a crash.
func (c *Cart) RemoveItem(itemID uuid.UUID) error {
	for idx, item := range c.Items {
		if item.ID == itemID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.UpdatedAt = time.Now()
			c.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("NOT_FOUND", "Cart item not found")
}

// Clear removes every item from the cart
func (c *Cart) Clear() {
	c.Items = make([]CartItem, 0)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// IsEmpty reports whether the cart holds no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount returns the number of distinct line items
func (c *Cart) ItemCount() int {
	return len(c.Items)
}

// GetItem returns an item by its ID, or nil when absent
func (c *Cart) GetItem(itemID uuid.UUID) *CartItem {
	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			return &c.Items[idx]
		}
	}
	return nil
}

// GetItemByProduct returns the item holding productID, or nil when absent
func (c *Cart) GetItemByProduct(productID uuid.UUID) *CartItem {
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			return &c.Items[idx]
		}
	}
	return nil
}
