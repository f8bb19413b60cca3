package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orderapp "github.com/storefront/backend/internal/application/order"
)

// OrderHandler handles order placement and lifecycle endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.Service) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create places an order, either from explicit line items or, with
// from_cart, from the user's cart. Stock for every line is reserved
// atomically, one short line fails the whole order.
func (h *OrderHandler) Create(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	var req orderapp.PlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindingError(c, err)
		return
	}

	var (
		result *orderapp.Response
		err    error
	)
	if req.FromCart {
		result, err = h.orderService.Checkout(c.Request.Context(), principal, orderapp.CheckoutRequest{
			AddressID: req.AddressID,
		})
	} else {
		result, err = h.orderService.Create(c.Request.Context(), principal, orderapp.CreateRequest{
			AddressID: req.AddressID,
			Items:     req.Items,
		})
	}
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// Checkout places an order from the user's cart and clears the cart on
// success
func (h *OrderHandler) Checkout(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	var req orderapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindingError(c, err)
		return
	}

	result, err := h.orderService.Checkout(c.Request.Context(), principal, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// List returns the authenticated user's orders
func (h *OrderHandler) List(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	orders, total, err := h.orderService.ListMine(c.Request.Context(), principal.UserID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.respondList(c, orders, total, filter)
}

// Get returns a single order. Orders of other users read as not found.
func (h *OrderHandler) Get(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	orderID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.orderService.GetByID(c.Request.Context(), principal, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdateStatus moves an order along its lifecycle. Customers may only
// cancel their own orders through this endpoint, admins may apply any
// legal transition.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	orderID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req orderapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindingError(c, err)
		return
	}

	result, err := h.orderService.UpdateStatus(c.Request.Context(), principal, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel cancels a pending order, releasing its stock and removing the
// order record
func (h *OrderHandler) Cancel(c *gin.Context) {
	principal, ok := h.getPrincipal(c)
	if !ok {
		return
	}

	orderID, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.orderService.Cancel(c.Request.Context(), principal, orderID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// ListAll returns orders across all users. Admin only.
func (h *OrderHandler) ListAll(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	orders, total, err := h.orderService.ListAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.respondList(c, orders, total, filter)
}

// ListForUser returns a specific user's orders. Admin only.
func (h *OrderHandler) ListForUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	orders, total, err := h.orderService.ListForUser(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.respondList(c, orders, total, filter)
}

func (h *OrderHandler) bindFilter(c *gin.Context) (orderapp.ListFilter, bool) {
	var filter orderapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.handleBindingError(c, err)
		return filter, false
	}
	return filter, true
}

func (h *OrderHandler) respondList(c *gin.Context, orders []orderapp.Response, total int64, filter orderapp.ListFilter) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}
