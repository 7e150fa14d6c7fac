package ports

import (
	"context"

	"github.com/adminhub/admin-system/internal/core/domain"
)

// MenuReorderItem is one entry of a batch reorder: the referenced menu takes
// the given order number and parent.
type MenuReorderItem struct {
	ID       int64
	OrderNum int
	ParentID *int64
}

// MenuRepository persists menu nodes. Soft-deleted menus are excluded.
type MenuRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Menu, error)
	List(ctx context.Context, search string) ([]domain.Menu, error)

	// ListEnabled returns enabled menus only, ordered by order_num.
	ListEnabled(ctx context.Context) ([]domain.Menu, error)

	// ListByIDs returns the live menus among ids, ordered by order_num.
	ListByIDs(ctx context.Context, ids []int64) ([]domain.Menu, error)
	Create(ctx context.Context, menu *domain.Menu) error
	Update(ctx context.Context, menu *domain.Menu) error
	SoftDelete(ctx context.Context, id int64) error

	// ApplyReorder writes order/parent for each item in one transaction.
	ApplyReorder(ctx context.Context, items []MenuReorderItem) error

	// Count returns the number of live menus; used to bound ancestor walks.
	Count(ctx context.Context) (int64, error)
}
