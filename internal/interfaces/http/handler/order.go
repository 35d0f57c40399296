package handler

import (
	"github.com/gin-gonic/gin"

	tradeapp "github.com/grocery/admin/internal/application/trade"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// List returns the filtered order table. With id set the matching order is
// returned alongside as the selected detail.
// GET /orders?search=&status=&date=&id=&refresh=
func (h *OrderHandler) List(c *gin.Context) {
	var q OrderListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	list, err := h.orderService.List(c.Request.Context(), q.Criteria(), q.ID, q.Refresh)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, list, list.Total, list.Count, list.Summary)
}

// Get returns the detail of one order.
// GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.ObjectID(c)
	if !ok {
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// UpdateStatus moves an order to another status.
// PATCH /orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.ObjectID(c)
	if !ok {
		return
	}
	var req OrderStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	row, err := h.orderService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, row)
}
