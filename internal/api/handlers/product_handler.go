// backend-go/internal/api/handlers/product_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/orderdesk/backend-go/internal/repository"
	"github.com/orderdesk/backend-go/internal/service"
)

type ProductHandler struct {
	resolver *service.ResolverService
	products repository.ProductRepository
}

func NewProductHandler(resolver *service.ResolverService, products repository.ProductRepository) *ProductHandler {
	return &ProductHandler{resolver: resolver, products: products}
}

// Resolve handles GET /products/resolve?name=. A miss returns 200 with a null
// product; the UI then falls to the suggestion path.
func (h *ProductHandler) Resolve(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	product, err := h.resolver.Resolve(c.Request.Context(), actor, c.Query("name"), c.Query("vendor"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// Suggest handles GET /products/suggest?name=&limit=.
func (h *ProductHandler) Suggest(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	suggestions, err := h.resolver.Suggest(c.Request.Context(), actor, c.Query("name"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// List handles GET /products?search=&limit=&offset=.
func (h *ProductHandler) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	products, err := h.products.List(c.Request.Context(), actor.CompanyID, c.Query("search"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}
