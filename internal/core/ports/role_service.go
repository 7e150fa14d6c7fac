package ports

import (
	"context"

	"github.com/adminhub/admin-system/internal/core/domain"
)

// RoleInput carries the writable role fields for create/update.
type RoleInput struct {
	Name   string
	Code   string
	Status *int
	Remark string
}

// RoleService owns the role/permission graph.
type RoleService interface {
	List(ctx context.Context, search string, page, pageSize int) ([]domain.Role, int64, error)
	Get(ctx context.Context, id int64) (*domain.Role, error)
	Create(ctx context.Context, input RoleInput) (*domain.Role, error)
	Update(ctx context.Context, id int64, input RoleInput) (*domain.Role, error)

	// Delete soft-deletes the role; fails with ErrRoleInUse while any user
	// still holds it and ErrSystemRoleImmutable for system roles.
	Delete(ctx context.Context, id int64) error
	ToggleStatus(ctx context.Context, id int64) (*domain.Role, error)

	// AssignRoles replaces the user's entire role set. Unknown role ids are
	// silently skipped; the applied ids are returned so clients can detect
	// skips. A non-admin actor granting the admin role gets ErrForbidden.
	AssignRoles(ctx context.Context, actor *domain.Identity, userID int64, roleIDs []int64) ([]int64, error)

	// CanAssignAdmin reports whether the actor may include the admin role in
	// an assignment.
	CanAssignAdmin(ctx context.Context, actor *domain.Identity, roleIDs []int64) (bool, error)

	MenuIDs(ctx context.Context, roleID int64) ([]int64, error)
	ReplaceMenus(ctx context.Context, actor *domain.Identity, roleID int64, menuIDs []int64) error
}
