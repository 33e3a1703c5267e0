// Package auth implements login, access-token refresh and logout on top of
// the token issuer and the user store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quillpress/quillpress/backend/go-services/internal/apperrors"
	"github.com/quillpress/quillpress/backend/go-services/internal/models"
	"github.com/quillpress/quillpress/backend/go-services/internal/password"
	"github.com/quillpress/quillpress/backend/go-services/internal/sessions"
	"github.com/quillpress/quillpress/backend/go-services/internal/tokens"
	"github.com/quillpress/quillpress/backend/go-services/internal/users"
	"github.com/quillpress/quillpress/backend/go-services/pkg/logger"
	"github.com/quillpress/quillpress/backend/go-services/pkg/metrics"
)

var (
	// ErrInvalidCredentials covers both unknown usernames and wrong passwords.
	ErrInvalidCredentials = apperrors.Unauthenticated("invalid credentials")
	ErrRevokedToken       = apperrors.Unauthenticated("refresh token has been revoked")
)

// UserFinder is the part of users.Service the auth flow needs.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// TokenPair is returned by a successful login.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Service struct {
	users     UserFinder
	hasher    password.Hasher
	issuer    *tokens.Issuer
	sessions  *sessions.Service
	blacklist *sessions.Blacklist
}

// NewService wires the auth flow. sessions and blacklist may be nil, which
// disables refresh revocation and logout blacklisting respectively.
func NewService(u UserFinder, h password.Hasher, iss *tokens.Issuer, sess *sessions.Service, bl *sessions.Blacklist) *Service {
	return &Service{users: u, hasher: h, issuer: iss, sessions: sess, blacklist: bl}
}

func record(op string, err error) {
	outcome := "success"
	switch {
	case err == nil:
	case apperrors.Is(err, apperrors.KindAuthentication), apperrors.Is(err, apperrors.KindNotFound):
		outcome = "rejected"
	default:
		outcome = "error"
	}
	metrics.AuthAttempts.WithLabelValues(op, outcome).Inc()
}

// Login checks the credentials and issues an access/refresh pair.
// An unknown username yields an error matching both ErrInvalidCredentials
// and users.ErrUserNotFound.
func (s *Service) Login(ctx context.Context, username, plain string) (pair *TokenPair, err error) {
	defer func() { record("login", err) }()

	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return nil, err
	}
	if err := s.hasher.Compare(u.Password, plain); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	access, err := s.issuer.IssueAccessToken(u)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.issuer.IssueRefreshToken(u)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	if s.sessions != nil {
		if err := s.sessions.CreateSession(ctx, u.ID, refresh, s.issuer.Now().Add(s.issuer.RefreshTTL())); err != nil {
			return nil, fmt.Errorf("store session: %w", err)
		}
	}
	logger.Infof("user %s logged in", u.ID)
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh issues a new access token reflecting the user's current role and
// status. The refresh token itself is not rotated.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (access string, err error) {
	defer func() { record("refresh", err) }()

	claims, err := s.issuer.RefreshVerifier().Verify(refreshToken)
	if err != nil {
		return "", err
	}
	if s.sessions != nil {
		sess, err := s.sessions.ValidateRefresh(ctx, refreshToken)
		if err != nil {
			return "", fmt.Errorf("load session: %w", err)
		}
		if sess == nil || sess.Sub != claims.Subject {
			return "", ErrRevokedToken
		}
	}
	u, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return "", err
	}
	return s.issuer.IssueAccessToken(u)
}

// Logout blacklists the access token for its remaining lifetime and drops
// the refresh session. An empty refreshToken only blacklists.
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) (err error) {
	defer func() { record("logout", err) }()

	claims, err := s.issuer.AccessVerifier().Verify(accessToken)
	if err != nil {
		return err
	}
	if err := s.blacklist.Add(ctx, accessToken, time.Until(claims.ExpiresAt.Time)); err != nil {
		return fmt.Errorf("blacklist access token: %w", err)
	}
	if refreshToken != "" && s.sessions != nil {
		if err := s.sessions.DeleteRefresh(ctx, refreshToken); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
	}
	logger.Infof("user %s logged out", claims.Subject)
	return nil
}

// IsRevoked reports whether an access token was logged out.
func (s *Service) IsRevoked(ctx context.Context, accessToken string) (bool, error) {
	return s.blacklist.Contains(ctx, accessToken)
}
