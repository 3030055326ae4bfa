package controllers

import (
	"github.com/shopspring/decimal"

	"github.com/neubistro/bistro/app/services"
	"github.com/neubistro/bistro/pkg/ctx"
)

type MenuController struct {
	service *services.MenuService
}

func NewMenuController(service *services.MenuService) *MenuController {
	return &MenuController{service: service}
}

type createMenuRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Price       decimal.Decimal `json:"price" validate:"required,positive"`
	Description string          `json:"description" validate:"nullable,max=1000"`
	Category    string          `json:"category" validate:"nullable,max=100"`
	Image       string          `json:"image" validate:"nullable,url,max=2048"`
}

// Index  GET /api/menu
func (h *MenuController) Index(c *ctx.Context) {
	items, err := h.service.List(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(items)
}

// Store  POST /api/menu
func (h *MenuController) Store(c *ctx.Context) {
	var in createMenuRequest
	if !c.BindJSON(&in) {
		return
	}

	item, err := h.service.Create(c.Context(), services.NewMenuItem{
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Category:    in.Category,
		Image:       in.Image,
	})
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(item)
}

// Destroy  DELETE /api/menu/{id}
func (h *MenuController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}

	if err := h.service.SoftDelete(c.Context(), id); err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]string{"message": "Item hidden (soft deleted) successfully"})
}
