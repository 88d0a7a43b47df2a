package middleware

import (
	"net/http"

	"castlebooking/internal/domain"
	"castlebooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through only when the caller has one of
// the allowed roles. It must run after JWTAuth.
func RequireRole(allowed ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := Role(c)
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		for _, r := range allowed {
			if role == r {
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
	return RequireRole(domain.RoleAdmin)
}
