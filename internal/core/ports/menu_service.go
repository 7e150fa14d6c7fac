package ports

import (
	"context"

	"github.com/adminhub/admin-system/internal/core/domain"
)

// MenuInput carries the writable menu fields for create/update.
type MenuInput struct {
	Name      string
	Icon      string
	ParentID  *int64
	OrderNum  int
	Path      string
	Component string
	Perms     string
	Status    *int
	Remark    string
}

// MenuService owns the menu hierarchy.
type MenuService interface {
	// Tree returns the full live forest (optionally filtered by search),
	// ordered by order_num at each level.
	Tree(ctx context.Context, search string) ([]*domain.MenuNode, error)

	// EnabledTree returns the enabled-only forest, used by the role-grant UI.
	EnabledTree(ctx context.Context) ([]*domain.MenuNode, error)
	Get(ctx context.Context, id int64) (*domain.Menu, error)
	Create(ctx context.Context, input MenuInput) (*domain.Menu, error)
	Update(ctx context.Context, id int64, input MenuInput) (*domain.Menu, error)
	Delete(ctx context.Context, id int64) error

	// Reorder applies order/parent to each item. Every parent reassignment is
	// cycle-validated before anything is written.
	Reorder(ctx context.Context, items []MenuReorderItem) error

	// ValidateNoCycle reports whether menuID may adopt candidateParentID as
	// its parent without becoming its own ancestor.
	ValidateNoCycle(ctx context.Context, menuID int64, candidateParentID *int64) (bool, error)

	// EffectiveMenusForUser unions the user's role grants and rebuilds the
	// forest over the granted set only; children whose parent is not granted
	// are promoted to root.
	EffectiveMenusForUser(ctx context.Context, userID int64) ([]*domain.MenuNode, error)
}
