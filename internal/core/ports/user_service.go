package ports

import (
	"context"

	"github.com/adminhub/admin-system/internal/core/domain"
)

// SignupInput carries the fields accepted at account creation.
type SignupInput struct {
	Username string
	Password string
	Email    string
	Phone    string
}

// ProfileInput carries the mutable profile fields.
type ProfileInput struct {
	Email   *string
	Phone   *string
	Status  *int
	Comment *string
}

// UserService owns account management around the credential store.
type UserService interface {
	Signup(ctx context.Context, input SignupInput) (*domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, search string, page, pageSize int) ([]domain.User, int64, error)
	UpdateProfile(ctx context.Context, actor *domain.Identity, id int64, input ProfileInput) (*domain.User, error)

	// ChangePassword verifies oldPassword when the actor changes their own
	// password; admins resetting another account skip the verification.
	ChangePassword(ctx context.Context, actor *domain.Identity, id int64, oldPassword, newPassword string) error

	// HardDelete permanently removes the account. Refused with
	// ErrAdminUndeletable while the target holds the admin role.
	HardDelete(ctx context.Context, actor *domain.Identity, id int64) error
}
