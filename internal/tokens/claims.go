package tokens

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/quillpress/quillpress/backend/go-services/internal/models"
)

// TokenType separates access tokens from refresh tokens inside the claims.
type TokenType string

const (
	TypeAccess  TokenType = "access"
	TypeRefresh TokenType = "refresh"
)

// Claims is the payload signed into both token variants. It is a
// point-in-time snapshot of the user and is never persisted.
type Claims struct {
	PreferredUsername string        `json:"preferred_username"`
	Name              string        `json:"name"`
	Role              models.Role   `json:"role"`
	Status            models.Status `json:"status"`
	Type              TokenType     `json:"typ"`
	jwt.RegisteredClaims
}

func newClaims(u *models.User, typ TokenType) *Claims {
	return &Claims{
		PreferredUsername: u.Username,
		Name:              u.Name,
		Role:              u.Role,
		Status:            u.Status,
		Type:              typ,
	}
}

// Identity maps validated claims to the request-scoped identity.
func (c *Claims) Identity() *Identity {
	return &Identity{
		ID:       c.Subject,
		Username: c.PreferredUsername,
		Name:     c.Name,
		Role:     c.Role,
		Status:   c.Status,
	}
}
