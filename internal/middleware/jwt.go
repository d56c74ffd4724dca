package middleware

import (
	"context"  // Request context
	"errors"   // Error classification
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"drops_api/internal/domain"

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/sirupsen/logrus"
)

// Context keys set by JWTAuthMiddleware
const (
	UserIDKey    = "userID"
	PrincipalKey = "principal"
)

// PrincipalResolver turns a bearer token into the user it was issued for
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, token string) (*domain.User, error)
}

// JWTAuthMiddleware validates the bearer token and stores the principal in the context
func JWTAuthMiddleware(auth PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")) // Extract the token string
		user, err := auth.ResolvePrincipal(c.Request.Context(), tokenStr)
		if err != nil {
			if !errors.Is(err, domain.ErrUnauthenticated) {
				logrus.WithError(err).Error("Failed to resolve principal")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(UserIDKey, user.ID) // Store userID in context
		c.Set(PrincipalKey, user) // Store the full principal for role checks
		c.Next()                  // Proceed to the next handler
	}
}

// Principal returns the user stored by JWTAuthMiddleware, or nil
func Principal(c *gin.Context) *domain.User {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}
