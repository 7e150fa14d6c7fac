package ports

import (
	"context"

	"github.com/adminhub/admin-system/internal/core/domain"
)

// RoleRepository persists roles and role-menu grants. Soft-deleted roles are
// excluded from every method here.
type RoleRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Role, error)

	// FindByCode looks a role up by its normalized (lower-case) code.
	FindByCode(ctx context.Context, code string) (*domain.Role, error)
	List(ctx context.Context, search string, page, pageSize int) ([]domain.Role, int64, error)
	Create(ctx context.Context, role *domain.Role) error
	Update(ctx context.Context, role *domain.Role) error
	SoftDelete(ctx context.Context, id int64) error

	// AssignmentCount reports how many users currently hold the role.
	AssignmentCount(ctx context.Context, roleID int64) (int64, error)

	// FilterExisting returns the subset of ids that resolve to live roles,
	// preserving input order.
	FilterExisting(ctx context.Context, ids []int64) ([]int64, error)

	// MenuIDs returns the menu ids directly granted to the role.
	MenuIDs(ctx context.Context, roleID int64) ([]int64, error)

	// ReplaceMenus rewrites the role's grant set atomically
	// (clear then bulk insert in one transaction).
	ReplaceMenus(ctx context.Context, roleID int64, menuIDs []int64) error
}
