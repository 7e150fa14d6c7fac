package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/adminhub/admin-system/internal/api/metrics"
	"github.com/adminhub/admin-system/internal/api/middleware"
	"github.com/adminhub/admin-system/internal/core/domain"
	"github.com/adminhub/admin-system/internal/core/ports"
)

// AuthHandler owns the session endpoints: login, logout, refresh, validity.
type AuthHandler struct {
	authService  ports.AuthService
	tokenService ports.TokenService
	cookies      *CookieWriter
}

func NewAuthHandler(authService ports.AuthService, tokenService ports.TokenService, cookies *CookieWriter) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenService: tokenService,
		cookies:      cookies,
	}
}

type loginRequest struct {
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

type loginResponse struct {
	User *domain.User `json:"user"`
}

type validityResponse struct {
	Valid            bool  `json:"valid"`
	RemainingSeconds int64 `json:"remaining_seconds"`
}

// Login authenticates a user and sets the auth cookie pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	pair, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password, req.RememberMe, c.RealIP())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.cookies.SetPair(c, pair)
	return c.JSON(http.StatusOK, loginResponse{User: user})
}

// Logout revokes the refresh token and clears both cookies. Always succeeds:
// a missing, expired or already-revoked token still ends the session.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	identity, _ := middleware.CurrentIdentity(c)
	refreshToken := readCookie(c, RefreshTokenCookie)
	if refreshToken != "" {
		metrics.TokenRevocationsTotal.Inc()
	}

	h.authService.Logout(c.Request().Context(), refreshToken, identity, c.RealIP())
	h.cookies.Clear(c)
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

// Refresh exchanges the refresh cookie for a fresh token pair.
//
// @Summary      Refresh the session token pair
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      429  {object}  map[string]string
// @Router       /api/token/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	refreshToken := readCookie(c, RefreshTokenCookie)
	if refreshToken == "" {
		metrics.TokenRefreshTotal.WithLabelValues("invalid_token").Inc()
		return domain.ErrInvalidRefreshToken
	}

	pair, err := h.authService.Refresh(c.Request().Context(), refreshToken, c.RealIP())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRefreshToken) {
			metrics.TokenRefreshTotal.WithLabelValues("invalid_token").Inc()
		} else {
			metrics.TokenRefreshTotal.WithLabelValues("error").Inc()
		}
		// A failed refresh ends the session; stale cookies would just retry.
		h.cookies.Clear(c)
		return err
	}

	metrics.TokenRefreshTotal.WithLabelValues("success").Inc()
	h.cookies.SetPair(c, pair)
	return c.JSON(http.StatusOK, map[string]string{"message": "token refreshed"})
}

// Validity reports whether the current access token is still valid and how
// long it has left. Meant for frontends deciding when to refresh proactively.
//
// @Summary      Check access token validity
// @Tags         auth
// @Produce      json
// @Success      200  {object}  validityResponse
// @Router       /api/token/validity [get]
func (h *AuthHandler) Validity(c echo.Context) error {
	accessToken := readCookie(c, AccessTokenCookie)
	if accessToken == "" {
		return c.JSON(http.StatusOK, validityResponse{Valid: false})
	}

	remaining, err := h.tokenService.AccessTokenRemaining(accessToken)
	if err != nil || remaining <= 0 {
		return c.JSON(http.StatusOK, validityResponse{Valid: false})
	}

	return c.JSON(http.StatusOK, validityResponse{
		Valid:            true,
		RemainingSeconds: int64(remaining.Seconds()),
	})
}

// CSRF hands the frontend a CSRF token. The global CSRF middleware has
// already set the _csrf cookie; the token is mirrored in the body so SPAs
// can echo it back in the X-CSRF-Token header on mutation requests.
//
// @Summary      Obtain a CSRF token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/csrf [get]
func (h *AuthHandler) CSRF(c echo.Context) error {
	token, _ := c.Get(echomiddleware.DefaultCSRFConfig.ContextKey).(string)
	return c.JSON(http.StatusOK, map[string]string{"csrf_token": token})
}
