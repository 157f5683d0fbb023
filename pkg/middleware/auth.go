package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/addissongs/song-service/internal/identity"
	"github.com/addissongs/song-service/internal/revocation"
	"github.com/addissongs/song-service/pkg/logger"
)

// Token is minimal interface for a verified token that can expose claims
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

// IdentityKey is the gin context key under which the resolved caller
// identity is stored.
const IdentityKey = "identity"

// CallerIdentity returns the identity resolved by the auth middleware, or
// nil when the request is anonymous.
func CallerIdentity(c *gin.Context) *identity.Identity {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*identity.Identity)
	return id
}

// AuthMiddleware returns a Gin middleware that verifies Bearer tokens using
// the provided verifier and stores the resolved identity in the context.
// All verification failures surface as the same generic 401 so internals of
// the verification path are not leaked to callers.
func AuthMiddleware(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := resolveIdentity(c, ver)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(IdentityKey, id)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves an identity when a valid Bearer token is
// present but lets anonymous requests through. Used by routes that accept a
// sentinel owner.
func OptionalAuthMiddleware(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		if id, ok := resolveIdentity(c, ver); ok {
			c.Set(IdentityKey, id)
		}
		c.Next()
	}
}

func resolveIdentity(c *gin.Context, ver Verifier) (*identity.Identity, bool) {
	if ver == nil {
		return nil, false
	}
	auth := c.GetHeader("Authorization")
	if auth == "" {
		return nil, false
	}
	// Expect 'Bearer <token>'
	var token string
	if n, _ := fmt.Sscanf(auth, "Bearer %s", &token); n != 1 {
		return nil, false
	}

	if revoked, err := revocation.IsRevoked(c.Request.Context(), token); err != nil {
		logger.Warnf("revocation check failed: %v", err)
	} else if revoked {
		return nil, false
	}

	idToken, err := ver.Verify(c.Request.Context(), token)
	if err != nil {
		logger.Debugf("token verification failed: %v", err)
		return nil, false
	}

	var claims map[string]interface{}
	if err := idToken.Claims(&claims); err != nil {
		return nil, false
	}
	id, err := identity.FromClaims(claims)
	if err != nil {
		logger.Debugf("claim mapping failed: %v", err)
		return nil, false
	}
	return id, true
}
