package domain

import (
	"time"

	"gorm.io/gorm"
)

// User statuses. The zero value is deliberately not a valid status so an
// unset column is never mistaken for an active account.
const (
	UserStatusInactive = 0
	UserStatusActive   = 1
)

// User is an account in the admin backend. PasswordHash is never serialized.
// A soft-deleted (DeletedAt set) or inactive user must never authenticate.
type User struct {
	ID           int64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string         `json:"username" gorm:"uniqueIndex;not null;size:100"`
	PasswordHash string         `json:"-" gorm:"column:password_hash;not null;size:255"`
	Email        string         `json:"email,omitempty" gorm:"size:100"`
	Phone        string         `json:"phone,omitempty" gorm:"size:20"`
	Avatar       string         `json:"avatar,omitempty" gorm:"size:255"`
	Status       int            `json:"status" gorm:"not null;default:1"`
	Comment      string         `json:"comment,omitempty" gorm:"size:500"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty" gorm:"column:last_login_at"`
	CreatedAt    time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	Roles []Role `json:"roles,omitempty" gorm:"many2many:sys_user_roles;"`
}

func (User) TableName() string { return "sys_users" }

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive && !u.DeletedAt.Valid
}

// Identity is the resolved authentication context attached to a request by
// the auth middleware. RoleCodes reflects live, non-soft-deleted assignments
// at resolution time, not whatever was embedded in the token.
type Identity struct {
	UserID    int64
	Username  string
	Email     string
	RoleCodes []string
}

// HasRole reports whether the identity holds the role with the given code.
func (id *Identity) HasRole(code string) bool {
	for _, c := range id.RoleCodes {
		if c == code {
			return true
		}
	}
	return false
}

// IsAdmin is the admin gate used by protected endpoints.
func (id *Identity) IsAdmin() bool { return id.HasRole(RoleCodeAdmin) }
