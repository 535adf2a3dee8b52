package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"filmsocial/backend/internal/apperr"
	"filmsocial/backend/internal/models"
	"filmsocial/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUsers map[uint]*models.User

func (f fakeUsers) FindByID(_ context.Context, id uint) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("user %d not found", id)
}

func token(t *testing.T, id uint, role string) string {
	t.Helper()
	tok, err := jwt.GenerateToken(id, role, secret, time.Hour)
	require.NoError(t, err)
	return tok
}

func do(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	var gotID uint
	r := gin.New()
	r.Use(AuthMiddleware(secret))
	r.GET("/", func(c *gin.Context) {
		gotID, _ = UserID(c)
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "Bearer garbage").Code)

	wrong, err := jwt.GenerateToken(5, models.RoleUser, "other-secret", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, "Bearer "+wrong).Code)

	w := do(r, "Bearer "+token(t, 5, models.RoleUser))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(5), gotID)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	var authenticated bool
	r := gin.New()
	r.Use(OptionalAuthMiddleware(secret))
	r.GET("/", func(c *gin.Context) {
		_, authenticated = UserID(c)
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, do(r, "Bearer garbage").Code)
	assert.False(t, authenticated)

	assert.Equal(t, http.StatusOK, do(r, "Bearer "+token(t, 3, models.RoleUser)).Code)
	assert.True(t, authenticated)
}

func TestAdminMiddleware(t *testing.T) {
	users := fakeUsers{
		1: {ID: 1, Role: models.RoleAdmin, Enabled: true},
		2: {ID: 2, Role: models.RoleUser, Enabled: true},
		3: {ID: 3, Role: models.RoleAdmin, Enabled: false},
	}
	r := gin.New()
	r.Use(AuthMiddleware(secret), AdminMiddleware(users))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, "Bearer "+token(t, 1, models.RoleAdmin)).Code)
	assert.Equal(t, http.StatusForbidden, do(r, "Bearer "+token(t, 2, models.RoleUser)).Code)
	assert.Equal(t, http.StatusForbidden, do(r, "Bearer "+token(t, 3, models.RoleAdmin)).Code)
	// A role claim alone does not grant access.
	assert.Equal(t, http.StatusForbidden, do(r, "Bearer "+token(t, 2, models.RoleAdmin)).Code)
	assert.Equal(t, http.StatusNotFound, do(r, "Bearer "+token(t, 9, models.RoleAdmin)).Code)
}
