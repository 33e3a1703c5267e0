package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/quillpress/quillpress/backend/go-services/internal/apperrors"
)

var (
	ErrMalformedToken   = apperrors.Unauthenticated("malformed token")
	ErrExpiredToken     = apperrors.Unauthenticated("token has expired")
	ErrInvalidSignature = apperrors.Unauthenticated("invalid token signature")
	ErrInvalidClaims    = apperrors.Unauthenticated("invalid token claims")
)

// Verifier validates tokens of one type against one secret.
type Verifier struct {
	secret []byte
	typ    TokenType
	now    func() time.Time
}

type VerifierOption func(*Verifier)

// WithClock overrides the verification clock.
func WithClock(now func() time.Time) VerifierOption {
	return func(v *Verifier) { v.now = now }
}

func NewVerifier(secret string, typ TokenType, opts ...VerifierOption) *Verifier {
	v := &Verifier{secret: []byte(secret), typ: typ, now: time.Now}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Verify checks signature, expiry and required claims and returns the claims.
// An expired token reports ErrExpiredToken even when its signature is bad.
func (v *Verifier) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(IssuerName),
	)
	if err != nil {
		return nil, v.classify(err, claims)
	}
	if claims.Subject == "" || claims.Role == "" {
		return nil, fmt.Errorf("%w: missing subject or role", ErrInvalidClaims)
	}
	if claims.Type != v.typ {
		return nil, fmt.Errorf("%w: expected %s token, got %q", ErrInvalidClaims, v.typ, claims.Type)
	}
	return claims, nil
}

func (v *Verifier) classify(err error, claims *Claims) error {
	if errors.Is(err, jwt.ErrTokenMalformed) {
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	// claims are decoded before the signature is checked
	if claims.ExpiresAt != nil && !v.now().Before(claims.ExpiresAt.Time) {
		return fmt.Errorf("%w: %v", ErrExpiredToken, err)
	}
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrTokenUnverifiable) {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return fmt.Errorf("%w: %v", ErrInvalidClaims, err)
}
