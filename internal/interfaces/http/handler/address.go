package handler

import (
	"github.com/gin-gonic/gin"

	addressapp "github.com/storefront/backend/internal/application/address"
)

// AddressHandler handles the user's shipping address book
type AddressHandler struct {
	BaseHandler
	addressService *addressapp.Service
}

// NewAddressHandler creates a new AddressHandler
func NewAddressHandler(addressService *addressapp.Service) *AddressHandler {
	return &AddressHandler{addressService: addressService}
}

// Create adds a shipping address
func (h *AddressHandler) Create(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	var req addressapp.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindingError(c, err)
		return
	}

	result, err := h.addressService.Create(c.Request.Context(), principal.UserID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// List returns the user's addresses, newest first
func (h *AddressHandler) List(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	result, err := h.addressService.List(c.Request.Context(), principal.UserID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Get returns one address. Foreign addresses read as not found.
func (h *AddressHandler) Get(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	addressID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.addressService.GetByID(c.Request.Context(), principal.UserID, addressID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Update replaces an address's fields
func (h *AddressHandler) Update(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	addressID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req addressapp.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindingError(c, err)
		return
	}

	result, err := h.addressService.Update(c.Request.Context(), principal.UserID, addressID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete removes an address
func (h *AddressHandler) Delete(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	addressID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.addressService.Delete(c.Request.Context(), principal.UserID, addressID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
