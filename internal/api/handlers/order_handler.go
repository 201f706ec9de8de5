// backend-go/internal/api/handlers/order_handler.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orderdesk/backend-go/internal/domain"
	"github.com/orderdesk/backend-go/internal/service"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List handles GET /orders with date/mall/status/search filters.
func (h *OrderHandler) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	filter, err := orderFilterFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	rows, err := h.orders.List(c.Request.Context(), actor, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": rows})
}

type rowIDsRequest struct {
	RowIDs []int64 `json:"row_ids" binding:"required"`
}

// Cancel handles POST /orders/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req rowIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", domain.ErrBadRequest, err))
		return
	}

	affected, err := h.orders.Cancel(c.Request.Context(), actor, req.RowIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": affected})
}

// Delete handles POST /orders/delete (admin bulk delete).
func (h *OrderHandler) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req rowIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", domain.ErrBadRequest, err))
		return
	}

	if err := h.orders.Delete(c.Request.Context(), actor, req.RowIDs); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
