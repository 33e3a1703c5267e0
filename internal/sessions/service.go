package sessions

import (
	"context"
	"time"
)

// Service tracks which refresh tokens are still valid server-side.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service { return &Service{repo: r} }

// CreateSession records a freshly issued refresh token.
func (s *Service) CreateSession(ctx context.Context, sub, refreshToken string, expiresAt time.Time) error {
	return s.repo.Create(ctx, &Session{
		TokenHash: Digest(refreshToken),
		Sub:       sub,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: time.Now().UTC(),
	})
}

// ValidateRefresh returns the session if refresh token is known and not expired
func (s *Service) ValidateRefresh(ctx context.Context, refreshToken string) (*Session, error) {
	hash := Digest(refreshToken)
	sess, err := s.repo.GetByHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}
	if time.Now().UTC().After(sess.ExpiresAt) {
		_ = s.repo.DeleteByHash(ctx, hash)
		return nil, nil
	}
	return sess, nil
}

func (s *Service) DeleteRefresh(ctx context.Context, refreshToken string) error {
	return s.repo.DeleteByHash(ctx, Digest(refreshToken))
}

// RevokeAll drops every refresh session of sub. Access tokens already issued
// stay valid until they expire.
func (s *Service) RevokeAll(ctx context.Context, sub string) (int64, error) {
	return s.repo.DeleteBySub(ctx, sub)
}
