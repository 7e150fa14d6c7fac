package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/adminhub/admin-system/internal/core/domain"
	"github.com/adminhub/admin-system/internal/core/ports"
)

// AccessTokenCookie is the cookie carrying the access token.
const AccessTokenCookie = "accessToken"

const identityKey = "identity"

// Auth resolves an identity from the access-token cookie and attaches it to
// the request context. A missing, expired or otherwise invalid token lets the
// request proceed as anonymous; rejecting anonymous access is the job of
// RequireAuth on the routes that need it.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(AccessTokenCookie)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			identity, err := auth.ResolveIdentity(c.Request().Context(), cookie.Value)
			if err != nil {
				return next(c)
			}

			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

// CurrentIdentity returns the identity attached by Auth, if any.
func CurrentIdentity(c echo.Context) (*domain.Identity, bool) {
	identity, ok := c.Get(identityKey).(*domain.Identity)
	return identity, ok && identity != nil
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := CurrentIdentity(c); !ok {
			return domain.ErrUnauthorized
		}
		return next(c)
	}
}

// RequireAdmin is the admin gate: authenticated requests without a live
// admin-role assignment get 403, anonymous ones 401.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity, ok := CurrentIdentity(c)
		if !ok {
			return domain.ErrUnauthorized
		}
		if !identity.IsAdmin() {
			return domain.ErrForbidden
		}
		return next(c)
	}
}
