package tokens

import (
	"context"

	"github.com/quillpress/quillpress/backend/go-services/internal/models"
)

// Identity is the authenticated caller resolved from an access token.
// It lives for a single request.
type Identity struct {
	ID       string        `json:"id"`
	Username string        `json:"username"`
	Name     string        `json:"name"`
	Role     models.Role   `json:"role"`
	Status   models.Status `json:"status"`
}

// HasRole reports whether the identity holds one of roles.
func (i *Identity) HasRole(roles ...models.Role) bool {
	if i == nil {
		return false
	}
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}
