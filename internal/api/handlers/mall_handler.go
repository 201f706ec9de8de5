// backend-go/internal/api/handlers/mall_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orderdesk/backend-go/internal/repository"
)

type MallHandler struct {
	malls repository.MallRepository
}

func NewMallHandler(malls repository.MallRepository) *MallHandler {
	return &MallHandler{malls: malls}
}

// List handles GET /malls.
func (h *MallHandler) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	malls, err := h.malls.List(c.Request.Context(), actor.CompanyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"malls": malls})
}
