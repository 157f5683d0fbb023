package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/addissongs/song-service/internal/identity"
)

// RequireRoles rejects requests whose resolved identity does not hold one of
// the allowed roles. Must run after AuthMiddleware.
func RequireRoles(allowed ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := CallerIdentity(c)
		if id == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if err := identity.Authorize(id, allowed...); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}
