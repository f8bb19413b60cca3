package handler

import (
	"github.com/gin-gonic/gin"

	cartapp "github.com/storefront/backend/internal/application/cart"
)

// CartHandler handles the authenticated user's shopping cart
type CartHandler struct {
	BaseHandler
	cartService *cartapp.Service
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cartapp.Service) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get returns the current cart. Users without a cart get an empty one.
func (h *CartHandler) Get(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	result, err := h.cartService.GetCart(c.Request.Context(), principal.UserID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// AddItem adds a product to the cart, merging quantity when the product
// is already present
func (h *CartHandler) AddItem(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	var req cartapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindingError(c, err)
		return
	}

	result, err := h.cartService.AddItem(c.Request.Context(), principal.UserID, req.ProductID, req.Quantity)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdateItem sets the quantity of a cart line
func (h *CartHandler) UpdateItem(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	itemID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req cartapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindingError(c, err)
		return
	}

	result, err := h.cartService.UpdateItem(c.Request.Context(), principal.UserID, itemID, req.Quantity)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// RemoveItem deletes a cart line
func (h *CartHandler) RemoveItem(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	itemID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.cartService.RemoveItem(c.Request.Context(), principal.UserID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Clear empties the cart
func (h *CartHandler) Clear(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	result, err := h.cartService.Clear(c.Request.Context(), principal.UserID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
