// backend-go/internal/api/handlers/user_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orderdesk/backend-go/internal/domain"
	"github.com/orderdesk/backend-go/internal/repository"
)

type UserHandler struct {
	users repository.UserRepository
}

func NewUserHandler(users repository.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// Me handles GET /me: the authenticated user's own account record. A token
// whose user no longer exists, or points into another company, gets 404.
func (h *UserHandler) Me(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil || user.CompanyID != actor.CompanyID {
		respondError(c, domain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
