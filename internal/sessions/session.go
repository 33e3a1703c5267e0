package sessions

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Session is the server-side record of an issued refresh token.
// Only a digest of the token is stored.
type Session struct {
	ID        string    `bson:"_id,omitempty" json:"id,omitempty"`
	TokenHash string    `bson:"tokenHash" json:"tokenHash"`
	Sub       string    `bson:"sub" json:"sub"`
	ExpiresAt time.Time `bson:"expiresAt" json:"expiresAt"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Digest returns the storage key for a raw refresh token.
func Digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
