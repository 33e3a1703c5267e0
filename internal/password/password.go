// Package password hashes and verifies user passwords and generates the
// temporary passwords handed out on account creation and reset.
package password

import (
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/quillpress/quillpress/backend/go-services/internal/apperrors"
	"golang.org/x/crypto/bcrypt"
)

// TemporaryLength is the length of generated temporary passwords.
const TemporaryLength = 25

// DefaultCost is the bcrypt cost used when none is configured.
const DefaultCost = 10

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()-_=+[]{}<>?"

var (
	// ErrMismatch means the plaintext does not match the stored hash.
	ErrMismatch = errors.New("password does not match")
	// ErrEmpty is returned when hashing an empty password.
	ErrEmpty = apperrors.Validation("password must not be empty", nil)
)

// Hasher is the opaque hash/verify capability used by the services.
type Hasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

// Bcrypt implements Hasher with golang.org/x/crypto/bcrypt.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a bcrypt hasher. Out-of-range costs fall back to DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmpty
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), b.cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Compare returns ErrMismatch when plain does not produce hash.
func (b *Bcrypt) Compare(hash, plain string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return err
	}
	return nil
}

// Generate returns a random password of n characters.
func Generate(n int) (string, error) {
	if n <= 0 {
		n = TemporaryLength
	}
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out), nil
}
