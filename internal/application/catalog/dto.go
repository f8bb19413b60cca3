package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/catalog"
)

// ==================== Product DTOs ====================

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name            string           `json:"name" binding:"required,min=1,max=200"`
	Description     string           `json:"description"`
	Price           decimal.Decimal  `json:"price" binding:"required"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price"`
	Image           string           `json:"image"`
	CategoryID      *uuid.UUID       `json:"category_id"`
	Stock           int64            `json:"stock" binding:"min=0"`
}

// BatchCreateProductsRequest represents a request to create several products
type BatchCreateProductsRequest struct {
	Products []CreateProductRequest `json:"products" binding:"required,min=1,dive"`
}

// UpdateProductRequest represents a request to update a product.
// Stock is deliberately absent: quantities change only through reservation
// and release.
type UpdateProductRequest struct {
	Name            *string          `json:"name"`
	Description     *string          `json:"description"`
	Price           *decimal.Decimal `json:"price"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price"`
	Image           *string          `json:"image"`
	CategoryID      *uuid.UUID       `json:"category_id"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search     string     `form:"search"`
	CategoryID *uuid.UUID `form:"category_id"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Price           decimal.Decimal  `json:"price"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price,omitempty"`
	EffectivePrice  decimal.Decimal  `json:"effective_price"`
	Image           string           `json:"image,omitempty"`
	CategoryID      *uuid.UUID       `json:"category_id,omitempty"`
	Stock           int64            `json:"stock"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ToProductResponse converts a product to its API representation
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		DiscountedPrice: p.DiscountedPrice,
		EffectivePrice:  p.EffectivePrice(),
		Image:           p.Image,
		CategoryID:      p.CategoryID,
		Stock:           p.Stock,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// ToProductResponseList converts a slice of products
func ToProductResponseList(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for idx := range products {
		out = append(out, ToProductResponse(&products[idx]))
	}
	return out
}

// ==================== Category DTOs ====================

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToCategoryResponse converts a category to its API representation
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Image:       c.Image,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToCategoryResponseList converts a slice of categories
func ToCategoryResponseList(categories []catalog.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for idx := range categories {
		out = append(out, ToCategoryResponse(&categories[idx]))
	}
	return out
}
