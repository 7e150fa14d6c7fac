package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adminhub/admin-system/internal/core/domain"
	"github.com/adminhub/admin-system/internal/core/ports"
)

// UserHandler owns account endpoints: signup, profile, password, listing,
// deletion and role assignment.
type UserHandler struct {
	users ports.UserService
	roles ports.RoleService
}

func NewUserHandler(users ports.UserService, roles ports.RoleService) *UserHandler {
	return &UserHandler{users: users, roles: roles}
}

type signupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=20"`
}

type updateProfileRequest struct {
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Status  *int    `json:"status,omitempty" validate:"omitempty,oneof=0 1"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=500"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

type assignRolesRequest struct {
	RoleIDs []int64 `json:"role_ids" validate:"required"`
}

type assignRolesResponse struct {
	AppliedRoleIDs []int64 `json:"applied_role_ids"`
}

type listUsersResponse struct {
	Items []domain.User `json:"items"`
	Total int64         `json:"total"`
}

// Signup registers a new account. New accounts start active with no roles.
//
// @Summary      Register a new account
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/signup [post]
func (h *UserHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.Signup(c.Request().Context(), ports.SignupInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, user)
}

// Me returns the authenticated user's own account.
//
// @Summary      Get the current user
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /api/user-info [get]
func (h *UserHandler) Me(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.users.Get(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// List returns a page of users, optionally filtered by username search.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        search     query     string  false  "Username filter"
// @Param        page       query     int     false  "Page (1-based)"
// @Param        page_size  query     int     false  "Page size"
// @Success      200        {object}  listUsersResponse
// @Failure      403        {object}  map[string]string
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	page, pageSize := pagination(c)
	items, total, err := h.users.List(c.Request().Context(), c.QueryParam("search"), page, pageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listUsersResponse{Items: items, Total: total})
}

// Get returns one user by id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile updates profile fields. Users may edit their own profile;
// only admins may edit others or change the status field.
//
// @Summary      Update a user profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      int                   true  "User id"
// @Param        body  body      updateProfileRequest  true  "Fields to update"
// @Success      200   {object}  domain.User
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/users/{id} [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), identity, id, ports.ProfileInput{
		Email:   req.Email,
		Phone:   req.Phone,
		Status:  req.Status,
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword updates a user's password. Self-service requires the old
// password; an admin resetting another account does not.
//
// @Summary      Change a user's password
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      int                    true  "User id"
// @Param        body  body      changePasswordRequest  true  "Password change"
// @Success      200   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/users/{id}/password [put]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.users.ChangePassword(c.Request().Context(), identity, id, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "password updated"})
}

// Delete permanently removes a user. Refused while the target holds the
// admin role or any role at all; the role set must be cleared first.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.users.HardDelete(c.Request().Context(), identity, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user deleted"})
}

// AssignRoles replaces the user's entire role set. Unknown role ids are
// skipped; the response reports what was actually applied.
//
// @Summary      Replace a user's roles
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      int                 true  "User id"
// @Param        body  body      assignRolesRequest  true  "Role ids"
// @Success      200   {object}  assignRolesResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/users/{id}/roles [post]
func (h *UserHandler) AssignRoles(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req assignRolesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	applied, err := h.roles.AssignRoles(c.Request().Context(), identity, id, req.RoleIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, assignRolesResponse{AppliedRoleIDs: applied})
}
