// backend-go/internal/api/handlers/settlement_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orderdesk/backend-go/internal/domain"
	"github.com/orderdesk/backend-go/internal/service"
)

type SettlementHandler struct {
	settlements *service.SettlementService
}

func NewSettlementHandler(settlements *service.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlements: settlements}
}

// List handles GET /settlements?start_date=&end_date=.
func (h *SettlementHandler) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var start, end *time.Time
	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(c, domain.ErrBadRequest)
			return
		}
		start = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(c, domain.ErrBadRequest)
			return
		}
		end = &t
	}

	settlements, err := h.settlements.List(c.Request.Context(), actor, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settlements": settlements})
}

type refreshRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// Refresh handles POST /settlements/refresh: recomputes the aggregates for
// the period.
func (h *SettlementHandler) Refresh(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", domain.ErrBadRequest, err))
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		respondError(c, domain.ErrBadRequest)
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		respondError(c, domain.ErrBadRequest)
		return
	}
	// Inclusive end date on the wire.
	end = end.AddDate(0, 0, 1)

	settlements, err := h.settlements.Refresh(c.Request.Context(), actor, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settlements": settlements})
}
