package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adminhub/admin-system/internal/core/domain"
	"github.com/adminhub/admin-system/internal/core/ports"
)

// RoleHandler owns role CRUD and role-menu grant endpoints.
type RoleHandler struct {
	roles ports.RoleService
}

func NewRoleHandler(roles ports.RoleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

type roleRequest struct {
	Name   string `json:"name" validate:"required,max=100"`
	Code   string `json:"code" validate:"required,max=50"`
	Status *int   `json:"status,omitempty" validate:"omitempty,oneof=0 1"`
	Remark string `json:"remark,omitempty" validate:"omitempty,max=500"`
}

type roleMenusRequest struct {
	MenuIDs []int64 `json:"menu_ids" validate:"required"`
}

type roleMenusResponse struct {
	MenuIDs []int64 `json:"menu_ids"`
}

type listRolesResponse struct {
	Items []domain.Role `json:"items"`
	Total int64         `json:"total"`
}

// List returns a page of roles, optionally filtered by name search.
//
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Param        search     query     string  false  "Name filter"
// @Param        page       query     int     false  "Page (1-based)"
// @Param        page_size  query     int     false  "Page size"
// @Success      200        {object}  listRolesResponse
// @Failure      403        {object}  map[string]string
// @Router       /api/roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	page, pageSize := pagination(c)
	items, total, err := h.roles.List(c.Request().Context(), c.QueryParam("search"), page, pageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listRolesResponse{Items: items, Total: total})
}

// Get returns one role by id.
//
// @Summary      Get a role
// @Tags         roles
// @Produce      json
// @Param        id   path      int  true  "Role id"
// @Success      200  {object}  domain.Role
// @Failure      404  {object}  map[string]string
// @Router       /api/roles/{id} [get]
func (h *RoleHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	role, err := h.roles.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, role)
}

// Create adds a role. Codes are normalized to lower case; "admin" and
// "common" are reserved.
//
// @Summary      Create a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        body  body      roleRequest  true  "Role fields"
// @Success      201   {object}  domain.Role
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/roles [post]
func (h *RoleHandler) Create(c echo.Context) error {
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	role, err := h.roles.Create(c.Request().Context(), ports.RoleInput{
		Name:   req.Name,
		Code:   req.Code,
		Status: req.Status,
		Remark: req.Remark,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, role)
}

// Update edits a role. System roles are immutable.
//
// @Summary      Update a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        id    path      int          true  "Role id"
// @Param        body  body      roleRequest  true  "Role fields"
// @Success      200   {object}  domain.Role
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/roles/{id} [put]
func (h *RoleHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	role, err := h.roles.Update(c.Request().Context(), id, ports.RoleInput{
		Name:   req.Name,
		Code:   req.Code,
		Status: req.Status,
		Remark: req.Remark,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, role)
}

// Delete soft-deletes a role. Refused while any user still holds it.
//
// @Summary      Delete a role
// @Tags         roles
// @Produce      json
// @Param        id   path      int  true  "Role id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/roles/{id} [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.roles.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "role deleted"})
}

// ToggleStatus flips a role between enabled and disabled.
//
// @Summary      Toggle a role's status
// @Tags         roles
// @Produce      json
// @Param        id   path      int  true  "Role id"
// @Success      200  {object}  domain.Role
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/roles/{id}/status [post]
func (h *RoleHandler) ToggleStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	role, err := h.roles.ToggleStatus(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, role)
}

// Menus returns the menu ids granted to a role.
//
// @Summary      Get a role's menu grants
// @Tags         roles
// @Produce      json
// @Param        id   path      int  true  "Role id"
// @Success      200  {object}  roleMenusResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/roles/{id}/menus [get]
func (h *RoleHandler) Menus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ids, err := h.roles.MenuIDs(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roleMenusResponse{MenuIDs: ids})
}

// ReplaceMenus replaces a role's entire menu grant set. Unknown menu ids are
// skipped.
//
// @Summary      Replace a role's menu grants
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        id    path      int               true  "Role id"
// @Param        body  body      roleMenusRequest  true  "Menu ids"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/roles/{id}/menus [put]
func (h *RoleHandler) ReplaceMenus(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req roleMenusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.roles.ReplaceMenus(c.Request().Context(), identity, id, req.MenuIDs); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "menu grants updated"})
}
