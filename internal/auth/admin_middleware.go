package auth

import (
	"context"
	"net/http"

	"filmsocial/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// UserFinder loads the current state of an account.
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// AdminMiddleware creates a gin middleware to check for admin role.
// It must be used AFTER the standard AuthMiddleware. The role is read from
// the database, so a revoked admin loses access before the token expires.
func AdminMiddleware(users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			// This should not happen if AuthMiddleware is used before it
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Authenticated user not found"})
			return
		}

		if !user.Enabled || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		c.Next()
	}
}
