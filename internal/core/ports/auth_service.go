package ports

import (
	"context"

	"github.com/adminhub/admin-system/internal/core/domain"
)

// AuthService implements the authentication flows behind /api/login,
// /api/logout and /api/token/refresh.
type AuthService interface {
	// Login verifies credentials and returns a token pair plus the user.
	// Inactive and soft-deleted users fail with ErrInvalidCredentials
	// regardless of password correctness.
	Login(ctx context.Context, username, password string, rememberMe bool, ip string) (domain.TokenPair, *domain.User, error)

	// Logout revokes the refresh token. Missing or already-revoked tokens are
	// tolerated; logout must always succeed from the client's perspective.
	Logout(ctx context.Context, refreshToken string, identity *domain.Identity, ip string)

	// Refresh rotates the session per policy. Any token problem, including
	// one that suggests tampering, surfaces as ErrInvalidRefreshToken.
	Refresh(ctx context.Context, refreshToken string, ip string) (domain.TokenPair, error)

	// ResolveIdentity validates an access token and loads the user's live
	// role membership. Used by the auth middleware.
	ResolveIdentity(ctx context.Context, accessToken string) (*domain.Identity, error)
}
