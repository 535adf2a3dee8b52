package auth

import (
	"filmsocial/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// OptionalAuthMiddleware inspects for a token and sets the userID if present and valid,
// but does not fail if the token is missing or invalid.
func OptionalAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if claims, err := jwt.ParseToken(tokenString, secret); err == nil {
				c.Set(UserIDKey, claims.UserID)
				c.Set(RoleKey, claims.Role)
			}
		}
		c.Next()
	}
}
