package domain

import (
	"time"

	"gorm.io/gorm"
)

const (
	MenuStatusDisabled = 0
	MenuStatusEnabled  = 1
)

// Menu is a node in the navigation hierarchy. ParentID nil or 0 marks a
// root. The parent graph must stay acyclic; writes that change ParentID go
// through the cycle check in the menu service.
type Menu struct {
	ID        int64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string         `json:"name" gorm:"not null;size:50"`
	Icon      string         `json:"icon,omitempty" gorm:"size:100"`
	ParentID  *int64         `json:"parent_id" gorm:"index"`
	OrderNum  int            `json:"order_num" gorm:"not null;default:0"`
	Path      string         `json:"path,omitempty" gorm:"size:200"`
	Component string         `json:"component,omitempty" gorm:"size:255"`
	Perms     string         `json:"perms,omitempty" gorm:"size:100"`
	Status    int            `json:"status" gorm:"not null;default:1"`
	Remark    string         `json:"remark,omitempty" gorm:"size:500"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Menu) TableName() string { return "sys_menus" }

// IsRoot reports whether the menu has no parent (nil or 0).
func (m *Menu) IsRoot() bool { return m.ParentID == nil || *m.ParentID == 0 }

// RoleMenu grants a role visibility into a single menu node. Grants are not
// transitive: ancestors and descendants must each be granted explicitly.
type RoleMenu struct {
	ID     int64 `gorm:"primaryKey;autoIncrement"`
	RoleID int64 `gorm:"not null;index;uniqueIndex:idx_role_menu"`
	MenuID int64 `gorm:"not null;index;uniqueIndex:idx_role_menu"`
}

func (RoleMenu) TableName() string { return "sys_role_menus" }

// MenuNode is a menu with its resolved children, as rendered to clients.
type MenuNode struct {
	Menu
	Children []*MenuNode `json:"children,omitempty"`
}
