package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
)

// AddItemRequest represents a request to add a product to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest represents a request to set a cart line's quantity
type UpdateItemRequest struct {
	Quantity int64 `json:"quantity" binding:"required,min=1"`
}

// ProductView is the read-side projection of a product used when resolving
// cart line items for display. It is assembled at read time, never stored.
type ProductView struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	Price           decimal.Decimal  `json:"price"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price,omitempty"`
	EffectivePrice  decimal.Decimal  `json:"effective_price"`
	Image           string           `json:"image,omitempty"`
	Stock           int64            `json:"stock"`
}

// ToProductView projects a product into its cart-facing view
func ToProductView(p *catalog.Product) ProductView {
	return ProductView{
		ID:              p.ID,
		Name:            p.Name,
		Price:           p.Price,
		DiscountedPrice: p.DiscountedPrice,
		EffectivePrice:  p.EffectivePrice(),
		Image:           p.Image,
		Stock:           p.Stock,
	}
}

// ItemResponse is a cart line item resolved to its current product view
type ItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	Product   *ProductView    `json:"product,omitempty"`
	LineTotal decimal.Decimal `json:"line_total"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Response represents a cart in API responses
type Response struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Items     []ItemResponse  `json:"items"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// toResponse assembles the cart view, joining each line item to the product
// view resolved by the caller. An item whose product vanished from the
// catalog is rendered without detail rather than dropped.
func toResponse(c *cart.Cart, views map[uuid.UUID]ProductView) Response {
	items := make([]ItemResponse, 0, len(c.Items))
	subtotal := decimal.Zero

	for _, item := range c.Items {
		resp := ItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			LineTotal: decimal.Zero,
			UpdatedAt: item.UpdatedAt,
		}
		if view, ok := views[item.ProductID]; ok {
			v := view
			resp.Product = &v
			resp.LineTotal = view.EffectivePrice.Mul(decimal.NewFromInt(item.Quantity))
			subtotal = subtotal.Add(resp.LineTotal)
		}
		items = append(items, resp)
	}

	return Response{
		ID:        c.ID,
		UserID:    c.UserID,
		Items:     items,
		ItemCount: len(items),
		Subtotal:  subtotal,
		UpdatedAt: c.UpdatedAt,
	}
}
