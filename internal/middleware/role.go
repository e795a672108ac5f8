package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"accesspoint/internal/pkg/response"
)

// RequireRole ensures that the authenticated user carries the given role.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles := c.GetStringSlice("roles")
		if len(roles) == 0 {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Roles not found in token")
			c.Abort()
			return
		}

		for _, r := range roles {
			if r == requiredRole {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
		c.Abort()
	}
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole("admin")
}
