package ports

import (
	"context"
	"time"

	"github.com/adminhub/admin-system/internal/core/domain"
)

// TokenService mints, validates, refreshes and revokes session token pairs.
// It constructs tokens only; setting cookies and persisting last-login is the
// caller's responsibility.
type TokenService interface {
	// Issue builds an access/refresh pair for the user. With rememberMe both
	// lifetimes are extended and the refresh token is marked so a later
	// refresh preserves the extension.
	Issue(user *domain.User, rememberMe bool) (domain.TokenPair, error)

	// ValidateAccess verifies signature and expiry of an access token. Access
	// tokens are never checked against the revocation list.
	ValidateAccess(token string) (*domain.AccessClaims, error)

	// Refresh validates the refresh token against signature, expiry and the
	// revocation list, then issues a new pair honoring the original
	// remember-me policy. When rotation is enabled the old token is revoked
	// before the new pair is returned.
	Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, *domain.RefreshClaims, error)

	// Revoke blacklists the refresh token until its natural expiry.
	// Idempotent; expired or malformed tokens are not an error.
	Revoke(ctx context.Context, refreshToken string) error

	// AccessTokenRemaining returns the time left before the access token
	// expires, without consuming it.
	AccessTokenRemaining(token string) (time.Duration, error)
}
