// backend-go/internal/api/handlers/handlers.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/orderdesk/backend-go/internal/api/middleware"
	"github.com/orderdesk/backend-go/internal/domain"
)

// respondError maps the domain error taxonomy onto HTTP statuses. Every
// failure body is {"error": message}.
func respondError(c *gin.Context, err error) {
	var dup *domain.DuplicateFilenamesError
	var corrupt *domain.CorruptTemplateError

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTemplate):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNoData):
		status = http.StatusNotFound
	case errors.As(err, &dup):
		status = http.StatusConflict
	case errors.As(err, &corrupt):
		status = http.StatusUnprocessableEntity
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

// requireActor fetches the authenticated actor or aborts with 401.
func requireActor(c *gin.Context) (domain.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return domain.Actor{}, false
	}
	return actor, true
}

// orderFilterFromQuery builds an OrderFilter from list/export query params.
func orderFilterFromQuery(c *gin.Context) (domain.OrderFilter, error) {
	var f domain.OrderFilter

	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return f, domain.ErrBadRequest
		}
		f.StartDate = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return f, domain.ErrBadRequest
		}
		// End date is inclusive on the wire, exclusive in the query.
		t = t.AddDate(0, 0, 1)
		f.EndDate = &t
	}
	if raw := c.Query("mall_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return f, domain.ErrBadRequest
		}
		f.MallID = &id
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, ok := domain.ParseOrderStatus(raw)
		if !ok {
			return f, domain.ErrBadRequest
		}
		f.Status = status
	}
	f.SearchField = strings.TrimSpace(c.Query("search_field"))
	f.SearchValue = strings.TrimSpace(c.Query("search_value"))
	f.Limit, _ = strconv.Atoi(c.Query("limit"))
	f.Offset, _ = strconv.Atoi(c.Query("offset"))
	return f, nil
}
