package users

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
	"github.com/quillpress/quillpress/backend/go-services/internal/apperrors"
	"github.com/quillpress/quillpress/backend/go-services/internal/events"
	"github.com/quillpress/quillpress/backend/go-services/internal/models"
	"github.com/quillpress/quillpress/backend/go-services/internal/password"
	"github.com/quillpress/quillpress/backend/go-services/pkg/logger"
)

var (
	ErrUserNotFound        = apperrors.NotFound("user not found")
	ErrDuplicateUsername   = apperrors.Conflict("username already taken")
	ErrInvalidPassword     = apperrors.Validation("please enter correct old password", nil)
	ErrInvalidRole         = apperrors.Validation("invalid role", nil)
	ErrStorageUnconfigured = apperrors.Validation("avatar storage not configured", nil)
	ErrNoAvatar            = apperrors.NotFound("user has no avatar")
	ErrInvalidAvatar       = apperrors.Validation("avatar must be an http(s) URL", nil)
)

var externalURL = regexp.MustCompile(`^https?://`)

// AvatarURLTTL is how long presigned avatar links stay valid.
const AvatarURLTTL = 15 * time.Minute

// AvatarStore stores avatar images. Implemented by storage.MinIOStorage.
type AvatarStore interface {
	UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
	RemoveFile(ctx context.Context, key string) error
}

// SessionRevoker drops the refresh sessions of one user. Implemented by sessions.Service.
type SessionRevoker interface {
	RevokeAll(ctx context.Context, sub string) (int64, error)
}

// View is the read model returned to callers; it never contains the hash.
type View struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Username string        `json:"username"`
	Email    string        `json:"email"`
	Avatar   *string       `json:"avatar"`
	Role     models.Role   `json:"role"`
	Status   models.Status `json:"status"`
}

func toView(u *models.User) *View {
	return &View{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.Avatar,
		Role:     u.Role,
		Status:   u.Status,
	}
}

type CreateUserInput struct {
	Name     string
	Username string
	Email    string
	Role     models.Role
	Avatar   *string
}

type ProfileInput struct {
	Name   string
	Email  string
	Avatar *string
}

// Service encapsulates user-related business logic
type Service struct {
	repo      UserRepository
	hasher    password.Hasher
	publisher events.Publisher
	avatars   AvatarStore
	sessions  SessionRevoker
	generate  func(n int) (string, error)
}

type Option func(*Service)

// WithAvatarStore enables avatar uploads.
func WithAvatarStore(s AvatarStore) Option {
	return func(svc *Service) { svc.avatars = s }
}

// WithSessionRevoker logs a user out everywhere on password reset and deletion.
func WithSessionRevoker(r SessionRevoker) Option {
	return func(svc *Service) { svc.sessions = r }
}

// WithPasswordGenerator replaces the temporary password generator.
func WithPasswordGenerator(g func(n int) (string, error)) Option {
	return func(svc *Service) { svc.generate = g }
}

func NewService(r UserRepository, h password.Hasher, p events.Publisher, opts ...Option) *Service {
	if p == nil {
		p = events.LogPublisher{}
	}
	s := &Service{repo: r, hasher: h, publisher: p, generate: password.Generate}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) load(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %s: %w", id, ErrUserNotFound)
	}
	return u, nil
}

// FindByUsername returns the stored account, hash included, for credential checks.
func (s *Service) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// FindByID returns the stored account; used to refresh token claims.
func (s *Service) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.load(ctx, id)
}

// GetUsers lists users, newest first.
func (s *Service) GetUsers(ctx context.Context) ([]*View, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*View, 0, len(list))
	for _, u := range list {
		out = append(out, toView(u))
	}
	return out, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*View, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toView(u), nil
}

// CreateUser stores a new unconfirmed account with a generated temporary
// password and emits UserCreated carrying that password.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*View, error) {
	if in.Role == "" {
		in.Role = models.RoleAuthor
	}
	if !in.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if err := checkAvatar(in.Avatar, nil); err != nil {
		return nil, err
	}
	plain, err := s.generate(password.TemporaryLength)
	if err != nil {
		return nil, fmt.Errorf("generate password: %w", err)
	}
	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{
		ID:       uuid.NewString(),
		Username: in.Username,
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Role:     in.Role,
		Status:   models.StatusUnconfirmed,
		Avatar:   emptyToNil(in.Avatar),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	logger.Infof("user %s created with role %s", u.ID, u.Role)
	s.emit(ctx, events.UserCreated{Name: u.Name, Username: u.Username, TemporaryPassword: plain, Email: u.Email})
	return toView(u), nil
}

func (s *Service) UpdateUserProfile(ctx context.Context, id string, in ProfileInput) (*View, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkAvatar(in.Avatar, u.Avatar); err != nil {
		return nil, err
	}
	u.Name = in.Name
	u.Email = in.Email
	u.Avatar = emptyToNil(in.Avatar)
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return toView(u), nil
}

func (s *Service) UpdateUserRole(ctx context.Context, id string, role models.Role) (*View, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Role = role
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	logger.Infof("user %s role changed to %s", u.ID, role)
	return toView(u), nil
}

// ActivateUser replaces the temporary password and confirms the account.
func (s *Service) ActivateUser(ctx context.Context, id, oldPassword, newPassword string) error {
	u, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if u.Status == models.StatusConfirmed {
		return models.ErrAlreadyConfirmed
	}
	hash, err := s.rehash(u, oldPassword, newPassword)
	if err != nil {
		return err
	}
	u.Password = hash
	if err := u.Activate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, u)
}

func (s *Service) UpdateUserPassword(ctx context.Context, id, oldPassword, newPassword string) error {
	u, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	hash, err := s.rehash(u, oldPassword, newPassword)
	if err != nil {
		return err
	}
	u.Password = hash
	return s.repo.Update(ctx, u)
}

// ResetUserPassword is privileged: no old password is required. The account
// goes back to unconfirmed and the new plaintext leaves only via the event.
func (s *Service) ResetUserPassword(ctx context.Context, id string) error {
	u, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	plain, err := s.generate(password.TemporaryLength)
	if err != nil {
		return fmt.Errorf("generate password: %w", err)
	}
	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.Password = hash
	u.Unconfirm()
	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}
	logger.Infof("password reset for user %s", u.ID)
	s.revoke(ctx, u.ID)
	s.emit(ctx, events.ResetUserPassword{Name: u.Name, Email: u.Email, TemporaryPassword: plain})
	return nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Infof("user %s deleted", id)
	s.revoke(ctx, id)
	return nil
}

// UploadAvatar stores the image and records its object key on the user.
func (s *Service) UploadAvatar(ctx context.Context, id string, r io.Reader, size int64, contentType, filename string) (*View, error) {
	if s.avatars == nil {
		return nil, ErrStorageUnconfigured
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperrors.Validation("avatar must be an image", nil)
	}
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	prefix := avatarPrefix(u.ID)
	key := prefix + uuid.NewString() + strings.ToLower(path.Ext(filename))
	if err := s.avatars.UploadFile(ctx, key, r, size, contentType); err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}
	prev := u.Avatar
	u.Avatar = &key
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	// only objects we stored are removed; an avatar may also be an external URL
	if prev != nil && strings.HasPrefix(*prev, prefix) {
		if err := s.avatars.RemoveFile(ctx, *prev); err != nil {
			logger.Warnf("remove old avatar %s: %v", *prev, err)
		}
	}
	return toView(u), nil
}

// AvatarURL returns a presigned download link for an uploaded avatar, or
// the external URL unchanged.
func (s *Service) AvatarURL(ctx context.Context, id string) (string, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	if u.Avatar == nil || *u.Avatar == "" {
		return "", ErrNoAvatar
	}
	key := *u.Avatar
	if !strings.HasPrefix(key, avatarPrefix(u.ID)) {
		if externalURL.MatchString(key) {
			return key, nil
		}
		return "", ErrNoAvatar
	}
	if s.avatars == nil {
		return "", ErrStorageUnconfigured
	}
	return s.avatars.GetPresignedURL(ctx, key, AvatarURLTTL)
}

// avatarPrefix is where UploadAvatar stores a user's objects.
func avatarPrefix(id string) string {
	return "avatars/" + id + "/"
}

// checkAvatar accepts no avatar, the value already stored, or an external
// http(s) URL. Object keys can only be set through UploadAvatar.
func checkAvatar(v, current *string) error {
	if v == nil || *v == "" {
		return nil
	}
	if current != nil && *v == *current {
		return nil
	}
	if err := validation.Validate(*v, is.URL, validation.Match(externalURL)); err != nil {
		return ErrInvalidAvatar
	}
	return nil
}

func (s *Service) rehash(u *models.User, oldPassword, newPassword string) (string, error) {
	if err := s.hasher.Compare(u.Password, oldPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return "", ErrInvalidPassword
		}
		return "", err
	}
	return s.hasher.Hash(newPassword)
}

// emit never fails the caller: the change is already persisted.
func (s *Service) emit(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		logger.Errorf("publish %s: %v", e.EventName(), err)
	}
}

// revoke failures are logged; the account change itself already happened.
func (s *Service) revoke(ctx context.Context, id string) {
	if s.sessions == nil {
		return
	}
	n, err := s.sessions.RevokeAll(ctx, id)
	if err != nil {
		logger.Errorf("revoke sessions of user %s: %v", id, err)
		return
	}
	if n > 0 {
		logger.Infof("revoked %d sessions of user %s", n, id)
	}
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
