package ports

import (
	"context"
	"time"

	"github.com/adminhub/admin-system/internal/core/domain"
)

// UserRepository persists accounts and their role assignments. All lookups
// exclude soft-deleted rows unless stated otherwise.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, search string, page, pageSize int) ([]domain.User, int64, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error

	// HardDelete removes the row permanently. Callers must have verified the
	// user holds no admin role and must clear assignments first.
	HardDelete(ctx context.Context, id int64) error

	// RolesFor returns the user's current roles, excluding soft-deleted ones.
	RolesFor(ctx context.Context, userID int64) ([]domain.Role, error)

	// ReplaceRoles atomically rewrites the user's entire role set
	// (delete-all-then-insert in a single transaction).
	ReplaceRoles(ctx context.Context, userID int64, roleIDs []int64) error
}
