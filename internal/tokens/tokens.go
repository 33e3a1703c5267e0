package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/quillpress/quillpress/backend/go-services/internal/models"
)

const (
	// AccessTokenTTL is fixed; it is not configurable.
	AccessTokenTTL = 12 * time.Hour
	// DefaultRefreshTokenTTL applies when Config.RefreshTTL is zero.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
	// IssuerName is the iss claim of every token minted here.
	IssuerName = "quillpress"
)

var (
	ErrMissingSecret = errors.New("tokens: signing secret is not configured")
	ErrSameSecret    = errors.New("tokens: access and refresh secrets must differ")
)

// Config holds the signing material. Now defaults to time.Now.
type Config struct {
	AccessSecret  string
	RefreshSecret string
	RefreshTTL    time.Duration
	Now           func() time.Time
}

// Issuer mints signed access and refresh tokens.
type Issuer struct {
	access     []byte
	refresh    []byte
	refreshTTL time.Duration
	now        func() time.Time
}

// NewIssuer validates the configuration once at startup.
func NewIssuer(cfg Config) (*Issuer, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, ErrMissingSecret
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, ErrSameSecret
	}
	ttl := cfg.RefreshTTL
	if ttl <= 0 {
		ttl = DefaultRefreshTokenTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Issuer{
		access:     []byte(cfg.AccessSecret),
		refresh:    []byte(cfg.RefreshSecret),
		refreshTTL: ttl,
		now:        now,
	}, nil
}

// IssueAccessToken creates a signed JWT access token for the user
func (i *Issuer) IssueAccessToken(u *models.User) (string, error) {
	return i.issue(u, TypeAccess, i.access, AccessTokenTTL)
}

// IssueRefreshToken creates a signed JWT refresh token for the user
func (i *Issuer) IssueRefreshToken(u *models.User) (string, error) {
	return i.issue(u, TypeRefresh, i.refresh, i.refreshTTL)
}

func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

// Now reads the issuer clock.
func (i *Issuer) Now() time.Time { return i.now() }

// AccessVerifier returns a verifier bound to the access secret.
func (i *Issuer) AccessVerifier() *Verifier {
	return &Verifier{secret: i.access, typ: TypeAccess, now: i.now}
}

// RefreshVerifier returns a verifier bound to the refresh secret.
func (i *Issuer) RefreshVerifier() *Verifier {
	return &Verifier{secret: i.refresh, typ: TypeRefresh, now: i.now}
}

func (i *Issuer) issue(u *models.User, typ TokenType, secret []byte, ttl time.Duration) (string, error) {
	now := i.now()
	claims := newClaims(u, typ)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    IssuerName,
		Subject:   u.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString(secret)
}
