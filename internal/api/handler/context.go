package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/adminhub/admin-system/internal/api/middleware"
	"github.com/adminhub/admin-system/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the auth middleware. Handlers
// behind RequireAuth can rely on it being present; a missing identity means
// the route was wired without the gate and the request is rejected outright.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return identity, nil
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(400, "invalid id")
	}
	return id, nil
}

// pagination reads page/page_size query parameters with sane bounds.
func pagination(c echo.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.QueryParam("page_size"))
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}
	return page, pageSize
}
