package controllers

import (
	"github.com/neubistro/bistro/app/services"
	"github.com/neubistro/bistro/pkg/apperr"
	"github.com/neubistro/bistro/pkg/bind"
	"github.com/neubistro/bistro/pkg/ctx"
)

// OrderController serves the cart (the user's draft order) and order history.
type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

type addItemRequest struct {
	MenuItemID bind.Int `json:"menuItemId"`
	Quantity   bind.Int `json:"quantity"`
}

// Cart  GET /api/cart
func (h *OrderController) Cart(c *ctx.Context) {
	userID, ok := c.UserID()
	if !ok {
		c.Unauthorized()
		return
	}

	cart, err := h.service.GetOrCreateDraft(c.Context(), userID)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(cart)
}

// AddItem  POST /api/cart/items
func (h *OrderController) AddItem(c *ctx.Context) {
	userID, ok := c.UserID()
	if !ok {
		c.Unauthorized()
		return
	}

	var in addItemRequest
	if !c.BindJSON(&in) {
		return
	}
	if in.MenuItemID.Value <= 0 {
		c.Fail(apperr.Validation("Item ID required"))
		return
	}
	qty := in.Quantity.Or(1)
	if qty <= 0 || qty > int64(maxQuantity) {
		c.Fail(services.ErrInvalidInput)
		return
	}

	if err := h.service.AddItem(c.Context(), userID, uint(in.MenuItemID.Value), int(qty)); err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]string{"message": "Added to cart"})
}

// RemoveItem  DELETE /api/cart/items/{id}
func (h *OrderController) RemoveItem(c *ctx.Context) {
	userID, ok := c.UserID()
	if !ok {
		c.Unauthorized()
		return
	}
	lineID, ok := c.ParamUint("id")
	if !ok {
		return
	}

	if err := h.service.RemoveItem(c.Context(), userID, lineID); err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]string{"message": "Deleted"})
}

// Checkout  POST /api/orders/checkout
func (h *OrderController) Checkout(c *ctx.Context) {
	userID, ok := c.UserID()
	if !ok {
		c.Unauthorized()
		return
	}

	order, err := h.service.Checkout(c.Context(), userID)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]any{"message": "Order placed", "order": order})
}

// Index  GET /api/orders
func (h *OrderController) Index(c *ctx.Context) {
	userID, ok := c.UserID()
	if !ok {
		c.Unauthorized()
		return
	}

	orders, err := h.service.ListCompleted(c.Context(), userID)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(orders)
}

// maxQuantity bounds a single add so the running total stays in range.
const maxQuantity = 1000
