package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quillpress/quillpress/backend/go-services/internal/apperrors"
	"github.com/quillpress/quillpress/backend/go-services/internal/tokens"
	"github.com/quillpress/quillpress/backend/go-services/pkg/logger"
)

// IdentityKey is the gin context key holding the *tokens.Identity.
const IdentityKey = "identity"

// tokenKey holds the raw bearer token for handlers that need it (logout).
const tokenKey = "accessToken"

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(raw string) (*tokens.Claims, error)
}

// RevocationChecker reports logged-out access tokens. Optional.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(c *gin.Context) (string, bool) {
	auth := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(auth, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireAuth returns a Gin middleware that verifies Bearer access tokens.
// On success the identity is stored under IdentityKey and on the request context.
func RequireAuth(ver Verifier, revocations RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}
		token, ok := BearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		claims, err := ver.Verify(token)
		if err != nil {
			msg := apperrors.MessageOf(err)
			if msg == "" {
				msg = "invalid token"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		if revocations != nil {
			revoked, err := revocations.IsRevoked(c.Request.Context(), token)
			if err != nil {
				logger.Errorf("revocation check failed: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
				return
			}
			if revoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token has been revoked"})
				return
			}
		}

		id := claims.Identity()
		c.Set(IdentityKey, id)
		c.Set(tokenKey, token)
		c.Request = c.Request.WithContext(tokens.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// CurrentIdentity returns the identity set by RequireAuth.
func CurrentIdentity(c *gin.Context) (*tokens.Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*tokens.Identity)
	return id, ok && id != nil
}

// AccessToken returns the raw bearer token accepted by RequireAuth.
func AccessToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}
