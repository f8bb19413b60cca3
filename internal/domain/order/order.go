package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Status represents the lifecycle state of an order
type Status string

const (
	StatusPending   Status = "pending"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// transitions is the closed table of legal status changes.
// delivered and cancelled are terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

// ParseStatus validates a status literal
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", s))
	}
	return status, nil
}

// IsValid checks if the status is a known literal
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can legally move to target
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Item is an immutable line-item snapshot taken at order creation.
// The unit price and product name are frozen copies; later catalog changes
// never touch them. Items are destroyed only together with the order.
type Item struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int64           `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "order_items"
}

// Amount returns quantity × snapshot unit price
func (i Item) Amount() decimal.Decimal {
	return valueobject.NewMoney(i.UnitPrice).MulInt(i.Quantity).Amount()
}

// Order is an immutable-snapshot record of purchased line items, a shipping
// address, a total price and a lifecycle status.
type Order struct {
	shared.BaseAggregateRoot
	UserID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	AddressID  uuid.UUID       `gorm:"type:uuid;not null"`
	Items      []Item          `gorm:"foreignKey:OrderID"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status     Status          `gorm:"type:varchar(20);not null;default:'pending'"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates an empty pending order for a user and address
func NewOrder(userID, addressID uuid.UUID) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if addressID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Address ID cannot be empty")
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		AddressID:         addressID,
		Items:             make([]Item, 0),
		TotalPrice:        decimal.Zero,
		Status:            StatusPending,
	}, nil
}

// AddSnapshot appends a frozen line item taken from the current product
// state. Only valid before the order is persisted; orders never change
// their items afterwards.
func (o *Order) AddSnapshot(productID uuid.UUID, productName string, qty int64, unitPrice decimal.Decimal) error {
	if o.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-pending order")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if valueobject.NewMoney(unitPrice).IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	o.Items = append(o.Items, Item{
		ID:          uuid.New(),
		OrderID:     o.ID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    qty,
		UnitPrice:   unitPrice,
		CreatedAt:   time.Now(),
	})
	o.recalculateTotal()

	return nil
}

// TransitionTo moves the order to target when the transition table allows it
func (o *Order) TransitionTo(target Status) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change order status from %s to %s", o.Status, target))
	}

	o.Status = target
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// CanCancel reports whether the order may still be cancelled
func (o *Order) CanCancel() bool {
	return o.Status.CanTransitionTo(StatusCancelled)
}

// IsPending returns true while the order awaits shipment
func (o *Order) IsPending() bool {
	return o.Status == StatusPending
}

// IsOwnedBy reports whether the order belongs to the given user
func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.UserID == userID
}

// ItemCount returns the number of line items
func (o *Order) ItemCount() int {
	return len(o.Items)
}

func (o *Order) recalculateTotal() {
	total := valueobject.Zero()
	for _, item := range o.Items {
		total = total.Add(valueobject.NewMoney(item.Amount()))
	}
	o.TotalPrice = total.Amount()
	o.UpdatedAt = time.Now()
}
