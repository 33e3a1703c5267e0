package handlers

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/quillpress/quillpress/backend/go-services/internal/models"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

func roleValues() []interface{} {
	out := make([]interface{}, 0, len(models.Roles))
	for _, r := range models.Roles {
		out = append(out, r)
	}
	return out
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

// LogoutRequest carries the optional refresh token to drop with the session.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (r LogoutRequest) Validate() error { return nil }

type CreateUserRequest struct {
	Name     string      `json:"name"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	Avatar   *string     `json:"avatar"`
}

func (r CreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Username, validation.Required, validation.Length(3, 50), validation.Match(usernamePattern)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Role, validation.In(roleValues()...)),
		validation.Field(&r.Avatar, validation.NilOrNotEmpty, is.URL),
	)
}

type UpdateProfileRequest struct {
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Avatar *string `json:"avatar"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Avatar, validation.NilOrNotEmpty, is.URL),
	)
}

type UpdateRoleRequest struct {
	Role models.Role `json:"role"`
}

func (r UpdateRoleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Role, validation.Required, validation.In(roleValues()...)),
	)
}

// PasswordChangeRequest is used by both activation and password change.
type PasswordChangeRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (r PasswordChangeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OldPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(8, 72)),
	)
}

type CategoryRequest struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

func (r CategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 120)),
		validation.Field(&r.Slug, validation.Length(0, 120)),
	)
}

type PostRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.PostStatus `json:"status"`
	CategoryID  string            `json:"categoryId"`
}

func (r PostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Status, validation.In(models.PostDraft, models.PostPublished)),
		validation.Field(&r.CategoryID, is.UUID),
	)
}

// BulkDeleteRequest lists ids to remove; every id must be a UUID.
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

func (r BulkDeleteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.IDs, validation.Required),
	)
}
