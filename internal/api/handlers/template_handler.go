// backend-go/internal/api/handlers/template_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/orderdesk/backend-go/internal/domain"
	"github.com/orderdesk/backend-go/internal/repository"
)

type TemplateHandler struct {
	templates repository.TemplateRepository
}

func NewTemplateHandler(templates repository.TemplateRepository) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

// List handles GET /templates.
func (h *TemplateHandler) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	templates, err := h.templates.List(c.Request.Context(), actor.CompanyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// Get handles GET /templates/:id.
func (h *TemplateHandler) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, domain.ErrBadRequest)
		return
	}

	tpl, err := h.templates.GetByID(c.Request.Context(), actor.CompanyID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if tpl == nil {
		respondError(c, domain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, tpl)
}
