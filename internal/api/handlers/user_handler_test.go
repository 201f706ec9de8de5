// backend-go/internal/api/handlers/user_handler_test.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/backend-go/internal/api/middleware"
	"github.com/orderdesk/backend-go/internal/domain"
)

const testSecret = "test-secret"

type fakeUserRepo struct {
	users map[int64]domain.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeUserRepo) Upsert(ctx context.Context, u *domain.User) (int64, error) {
	return 0, nil
}

func signToken(t *testing.T, userID, companyID int64) string {
	t.Helper()
	claims := middleware.Claims{
		UserID:    userID,
		CompanyID: companyID,
		Grade:     "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return raw
}

func newMeRouter(users *fakeUserRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Auth(testSecret))
	router.GET("/me", NewUserHandler(users).Me)
	return router
}

func getMe(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestMeReturnsOwnAccount(t *testing.T) {
	users := &fakeUserRepo{users: map[int64]domain.User{
		7: {ID: 7, CompanyID: 1, Email: "admin@example.com", Name: "관리자", Grade: "admin"},
	}}
	router := newMeRouter(users)

	rec := getMe(router, signToken(t, 7, 1))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		User domain.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.User.ID)
	assert.Equal(t, "admin@example.com", body.User.Email)
}

func TestMeUnknownOrForeignUser(t *testing.T) {
	users := &fakeUserRepo{users: map[int64]domain.User{
		7: {ID: 7, CompanyID: 2, Email: "other@example.com"},
	}}
	router := newMeRouter(users)

	// Token resolves to a user in another company.
	rec := getMe(router, signToken(t, 7, 1))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Token resolves to no user at all.
	rec = getMe(router, signToken(t, 99, 1))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMeRequiresToken(t *testing.T) {
	router := newMeRouter(&fakeUserRepo{})

	rec := getMe(router, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
