package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adminhub/admin-system/internal/core/domain"
)

// Cookie names for the session token pair.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// CookieWriter sets and clears the auth cookies. Both cookies are HttpOnly
// with SameSite=Lax; Secure is dropped only in development so local HTTP
// frontends can authenticate.
type CookieWriter struct {
	path   string
	domain string
	secure bool
}

func NewCookieWriter(path, domain string, secure bool) *CookieWriter {
	if path == "" {
		path = "/"
	}
	return &CookieWriter{path: path, domain: domain, secure: secure}
}

// SetPair writes both auth cookies for the token pair. The access cookie
// expires with the token. The refresh cookie is session-scoped unless the
// pair was minted with remember-me, in which case it persists until the
// refresh token's own expiry.
func (w *CookieWriter) SetPair(c echo.Context, pair domain.TokenPair) {
	now := time.Now()

	access := w.base(AccessTokenCookie, pair.AccessToken)
	access.MaxAge = maxAgeUntil(now, pair.AccessExpiresAt)
	access.Expires = pair.AccessExpiresAt
	c.SetCookie(access)

	refresh := w.base(RefreshTokenCookie, pair.RefreshToken)
	if pair.RememberMe {
		refresh.MaxAge = maxAgeUntil(now, pair.RefreshExpiresAt)
		refresh.Expires = pair.RefreshExpiresAt
	}
	c.SetCookie(refresh)
}

// Clear expires both auth cookies immediately.
func (w *CookieWriter) Clear(c echo.Context) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		cookie := w.base(name, "")
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
		c.SetCookie(cookie)
	}
}

func (w *CookieWriter) base(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     w.path,
		Domain:   w.domain,
		HttpOnly: true,
		Secure:   w.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func maxAgeUntil(now, expiry time.Time) int {
	secs := int(expiry.Sub(now).Seconds())
	if secs < 1 {
		secs = 1
	}
	return secs
}

// readCookie returns the named cookie's value, or "" when absent.
func readCookie(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
