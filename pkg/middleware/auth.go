package middleware

import (
	"net/http"
	"strings"

	"metalya/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// RoleResolver returns the current role for a user. The session token
// carries the role it was issued with; resolving it again on every request
// makes a role change effective without forcing a re-login.
type RoleResolver interface {
	ResolveRole(userID string) (string, error)
}

func AuthMiddleware(jwtService *jwt.Service, roles RoleResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		role := claims.Role
		if roles != nil {
			current, err := roles.ResolveRole(claims.UserID)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
				c.Abort()
				return
			}
			role = current
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_role", role)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles. The denial is
// deliberately generic: it never says which rule failed.
func RequireRole(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("user_role")
		for _, a := range allowed {
			if role == a {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		c.Abort()
	}
}
