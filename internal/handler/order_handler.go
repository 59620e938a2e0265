package handler

import (
	"net/http"

	"github.com/wbtomas-png/ordreflyt-sub001/internal/dto"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/middleware"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orders service.OrderService
}

func NewOrderHandler(orders service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Submit handles POST /v1/orders. The order is attributed to the
// authenticated caller; the body carries only product IDs and quantities.
func (h *OrderHandler) Submit(c *gin.Context) {
	var req dto.SubmitOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p := middleware.GetPrincipal(c)
	resp, err := h.orders.Submit(c.Request.Context(), p.Email, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListMine handles GET /v1/orders.
func (h *OrderHandler) ListMine(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	resp, err := h.orders.ListMine(c.Request.Context(), p.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListAll handles GET /v1/admin/orders.
func (h *OrderHandler) ListAll(c *gin.Context) {
	resp, err := h.orders.ListAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /v1/orders/:id. Staff see only their own orders.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	p := middleware.GetPrincipal(c)
	resp, err := h.orders.Get(c.Request.Context(), p.Email, p.Role, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancel handles POST /v1/orders/:id/cancel. Only submitted orders can be
// cancelled.
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	p := middleware.GetPrincipal(c)
	if err := h.orders.Cancel(c.Request.Context(), p.Email, p.Role, id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
