package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quillpress/quillpress/backend/go-services/internal/apperrors"
	"github.com/quillpress/quillpress/backend/go-services/internal/auth"
	"github.com/quillpress/quillpress/backend/go-services/pkg/middleware"
)

// AuthHandler holds dependencies
type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(s *auth.Service) *AuthHandler {
	return &AuthHandler{svc: s}
}

// RegisterPublic registers the routes reachable without a token.
func (h *AuthHandler) RegisterPublic(rg *gin.RouterGroup) {
	rg.POST("/login", h.Login)
	rg.POST("/refresh", h.Refresh)
}

// RegisterProtected registers routes that run behind RequireAuth.
func (h *AuthHandler) RegisterProtected(rg *gin.RouterGroup) {
	rg.POST("/logout", h.Logout)
	rg.GET("/me", h.Me)
}

// Login returns an access/refresh pair. Unknown users and wrong passwords
// are indistinguishable to the caller.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bind(c, &req) {
		return
	}
	pair, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if apperrors.Is(err, apperrors.KindAuthentication) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidCredentials.Message})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Refresh accepts a refresh token and returns a new access token
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !bind(c, &req) {
		return
	}
	access, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		// the token subject no longer exists
		if apperrors.Is(err, apperrors.KindNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": access})
}

// Logout blacklists the presented access token and drops the refresh session.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	if !bindOptional(c, &req) {
		return
	}
	if err := h.svc.Logout(c.Request.Context(), middleware.AccessToken(c), req.RefreshToken); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the identity resolved from the access token.
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusOK, id)
}
