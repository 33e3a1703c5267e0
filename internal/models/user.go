package models

import (
	"time"

	"github.com/quillpress/quillpress/backend/go-services/internal/apperrors"
)

// Role is the authorization role carried by a user and its tokens.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleAuthor Role = "author"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleEditor, RoleAuthor}

func (r Role) Valid() bool {
	for _, v := range Roles {
		if r == v {
			return true
		}
	}
	return false
}

// Status tracks whether the user replaced the generated temporary password.
type Status string

const (
	StatusUnconfirmed Status = "unconfirmed"
	StatusConfirmed   Status = "confirmed"
)

// ErrAlreadyConfirmed is returned when activating a confirmed account.
var ErrAlreadyConfirmed = apperrors.Validation("user is already confirmed", nil)

// User is a persisted user account.
type User struct {
	ID        string    `bson:"_id" json:"id"`
	Username  string    `bson:"username" json:"username"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password" json:"-"`
	Role      Role      `bson:"role" json:"role"`
	Status    Status    `bson:"status" json:"status"`
	Avatar    *string   `bson:"avatar,omitempty" json:"avatar,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Activate moves an unconfirmed account to confirmed.
func (u *User) Activate() error {
	if u.Status == StatusConfirmed {
		return ErrAlreadyConfirmed
	}
	u.Status = StatusConfirmed
	return nil
}

// Unconfirm moves the account back to unconfirmed after a password reset.
func (u *User) Unconfirm() {
	u.Status = StatusUnconfirmed
}
