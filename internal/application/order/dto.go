package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/address"
	"github.com/storefront/backend/internal/domain/order"
)

// CreateItemInput represents an item in the create order request
type CreateItemInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,min=1"`
}

// CreateRequest represents a request to place an order from explicit items
type CreateRequest struct {
	AddressID uuid.UUID         `json:"address_id" binding:"required"`
	Items     []CreateItemInput `json:"items" binding:"required,min=1,dive"`
}

// PlaceRequest is the wire form of order placement: explicit items, or
// from_cart to source the lines from the user's cart instead
type PlaceRequest struct {
	AddressID uuid.UUID         `json:"address_id" binding:"required"`
	FromCart  bool              `json:"from_cart"`
	Items     []CreateItemInput `json:"items" binding:"omitempty,min=1,dive"`
}

// CheckoutRequest represents a request to place an order from the user's cart
type CheckoutRequest struct {
	AddressID uuid.UUID `json:"address_id" binding:"required"`
}

// UpdateStatusRequest represents a request to change an order's status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListFilter represents filter options for order lists
type ListFilter struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ItemResponse represents an order line item in API responses.
// Name and unit price are the values frozen at order creation.
type ItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// AddressView is the shipping address resolved into an order view.
// Orders store only the address reference; views carry the full record.
type AddressView struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Street  string    `json:"street"`
	City    string    `json:"city"`
	State   string    `json:"state"`
	Country string    `json:"country"`
	Zip     string    `json:"zip"`
	Phone   string    `json:"phone"`
}

func toAddressView(a *address.Address) *AddressView {
	return &AddressView{
		ID:      a.ID,
		Name:    a.Name,
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		Country: a.Country,
		Zip:     a.Zip,
		Phone:   a.Phone,
	}
}

// Response represents an order in API responses
type Response struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	AddressID  uuid.UUID       `json:"address_id"`
	Address    *AddressView    `json:"address,omitempty"`
	Items      []ItemResponse  `json:"items"`
	ItemCount  int             `json:"item_count"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ToResponse converts an order to its API representation
func ToResponse(o *order.Order) Response {
	items := make([]ItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, ItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount(),
		})
	}

	return Response{
		ID:         o.ID,
		UserID:     o.UserID,
		AddressID:  o.AddressID,
		Items:      items,
		ItemCount:  len(items),
		TotalPrice: o.TotalPrice,
		Status:     o.Status.String(),
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

// ToResponseList converts a slice of orders
func ToResponseList(orders []order.Order) []Response {
	out := make([]Response, 0, len(orders))
	for idx := range orders {
		out = append(out, ToResponse(&orders[idx]))
	}
	return out
}
