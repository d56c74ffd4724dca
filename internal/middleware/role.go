package middleware

import (
	"errors"
	"net/http" // HTTP status codes

	"drops_api/internal/domain"
	"drops_api/internal/service"

	"github.com/gin-gonic/gin" // Gin web framework
)

// RequireRoles aborts unless the principal holds one of roles.
// It must run after JWTAuthMiddleware and before any body binding.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := service.RequireRole(Principal(c), roles...)
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, domain.ErrUnauthenticated):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		default:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		}
	}
}

// AdminOnlyMiddleware restricts a group to ADMIN principals
func AdminOnlyMiddleware() gin.HandlerFunc {
	return RequireRoles(domain.RoleAdmin)
}
