package domain

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Reserved role codes. These cannot be claimed by a new or renamed role; the
// comparison is case-insensitive (codes are normalized before checking).
const (
	RoleCodeAdmin  = "admin"
	RoleCodeCommon = "common"
)

const (
	RoleStatusDisabled = 0
	RoleStatusEnabled  = 1
)

// Role is a named permission group. Roles with IsSystem set (the built-in
// admin role) are immutable: they cannot be renamed, disabled, or deleted.
type Role struct {
	ID        int64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string         `json:"name" gorm:"not null;size:30"`
	Code      string         `json:"code" gorm:"uniqueIndex;not null;size:100"`
	Status    int            `json:"status" gorm:"not null;default:1"`
	IsSystem  bool           `json:"is_system" gorm:"not null;default:false"`
	Remark    string         `json:"remark,omitempty" gorm:"size:500"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Role) TableName() string { return "sys_roles" }

// UserRole joins a user to a role. Assignment is replace-all: AssignRoles
// clears the user's set and rewrites it in one transaction.
type UserRole struct {
	ID     int64 `gorm:"primaryKey;autoIncrement"`
	UserID int64 `gorm:"not null;index;uniqueIndex:idx_user_role"`
	RoleID int64 `gorm:"not null;index;uniqueIndex:idx_user_role"`
}

func (UserRole) TableName() string { return "sys_user_roles" }

// NormalizeRoleCode lower-cases and trims a role code before uniqueness and
// reserved-word comparison.
func NormalizeRoleCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// IsReservedRoleCode reports whether the (normalized) code is reserved.
func IsReservedRoleCode(code string) bool {
	switch NormalizeRoleCode(code) {
	case RoleCodeAdmin, RoleCodeCommon:
		return true
	}
	return false
}
