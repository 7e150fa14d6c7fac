package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adminhub/admin-system/internal/core/domain"
	"github.com/adminhub/admin-system/internal/core/ports"
)

// MenuHandler owns the menu hierarchy endpoints.
type MenuHandler struct {
	menus ports.MenuService
}

func NewMenuHandler(menus ports.MenuService) *MenuHandler {
	return &MenuHandler{menus: menus}
}

type menuRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	Icon      string `json:"icon,omitempty" validate:"omitempty,max=100"`
	ParentID  *int64 `json:"parent_id,omitempty"`
	OrderNum  int    `json:"order_num" validate:"gte=0"`
	Path      string `json:"path,omitempty" validate:"omitempty,max=255"`
	Component string `json:"component,omitempty" validate:"omitempty,max=255"`
	Perms     string `json:"perms,omitempty" validate:"omitempty,max=100"`
	Status    *int   `json:"status,omitempty" validate:"omitempty,oneof=0 1"`
	Remark    string `json:"remark,omitempty" validate:"omitempty,max=500"`
}

type reorderItemRequest struct {
	ID       int64  `json:"id" validate:"required"`
	OrderNum int    `json:"order_num" validate:"gte=0"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

type reorderRequest struct {
	Items []reorderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type menuTreeResponse struct {
	Items []*domain.MenuNode `json:"items"`
}

// Tree returns the full menu forest, children nested under parents and each
// level ordered by order_num.
//
// @Summary      Get the menu tree
// @Tags         menus
// @Produce      json
// @Param        search  query     string  false  "Name filter"
// @Success      200     {object}  menuTreeResponse
// @Failure      403     {object}  map[string]string
// @Router       /api/menus [get]
func (h *MenuHandler) Tree(c echo.Context) error {
	forest, err := h.menus.Tree(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, menuTreeResponse{Items: forest})
}

// EnabledTree returns the enabled-only forest used by the role-grant UI.
//
// @Summary      Get the enabled menu tree
// @Tags         menus
// @Produce      json
// @Success      200  {object}  menuTreeResponse
// @Failure      403  {object}  map[string]string
// @Router       /api/menus/enabled [get]
func (h *MenuHandler) EnabledTree(c echo.Context) error {
	forest, err := h.menus.EnabledTree(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, menuTreeResponse{Items: forest})
}

// Get returns one menu by id.
//
// @Summary      Get a menu
// @Tags         menus
// @Produce      json
// @Param        id   path      int  true  "Menu id"
// @Success      200  {object}  domain.Menu
// @Failure      404  {object}  map[string]string
// @Router       /api/menus/{id} [get]
func (h *MenuHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	menu, err := h.menus.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, menu)
}

// Create adds a menu under the given parent (or at root).
//
// @Summary      Create a menu
// @Tags         menus
// @Accept       json
// @Produce      json
// @Param        body  body      menuRequest  true  "Menu fields"
// @Success      201   {object}  domain.Menu
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/menus [post]
func (h *MenuHandler) Create(c echo.Context) error {
	var req menuRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	menu, err := h.menus.Create(c.Request().Context(), menuInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, menu)
}

// Update edits a menu. A parent change is cycle-checked before writing.
//
// @Summary      Update a menu
// @Tags         menus
// @Accept       json
// @Produce      json
// @Param        id    path      int          true  "Menu id"
// @Param        body  body      menuRequest  true  "Menu fields"
// @Success      200   {object}  domain.Menu
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/menus/{id} [put]
func (h *MenuHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req menuRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	menu, err := h.menus.Update(c.Request().Context(), id, menuInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, menu)
}

// Delete soft-deletes a menu. Granted children of a deleted parent surface
// at root in subsequent tree reads.
//
// @Summary      Delete a menu
// @Tags         menus
// @Produce      json
// @Param        id   path      int  true  "Menu id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/menus/{id} [delete]
func (h *MenuHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.menus.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "menu deleted"})
}

// Reorder applies a batch of order/parent changes. Every parent reassignment
// in the batch is cycle-validated before anything is written; one bad item
// rejects the whole batch.
//
// @Summary      Reorder menus
// @Tags         menus
// @Accept       json
// @Produce      json
// @Param        body  body      reorderRequest  true  "Reorder items"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/menus/reorder [put]
func (h *MenuHandler) Reorder(c echo.Context) error {
	var req reorderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	items := make([]ports.MenuReorderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ports.MenuReorderItem{
			ID:       it.ID,
			OrderNum: it.OrderNum,
			ParentID: it.ParentID,
		})
	}

	if err := h.menus.Reorder(c.Request().Context(), items); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "menus reordered"})
}

// UserMenus returns the authenticated user's effective menu forest: the
// union of their role grants, enabled menus only, rebuilt over the granted
// set with orphaned children promoted to root.
//
// @Summary      Get the current user's menu tree
// @Tags         menus
// @Produce      json
// @Success      200  {object}  menuTreeResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/user-menus [get]
func (h *MenuHandler) UserMenus(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	forest, err := h.menus.EffectiveMenusForUser(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, menuTreeResponse{Items: forest})
}

func menuInput(req menuRequest) ports.MenuInput {
	return ports.MenuInput{
		Name:      req.Name,
		Icon:      req.Icon,
		ParentID:  req.ParentID,
		OrderNum:  req.OrderNum,
		Path:      req.Path,
		Component: req.Component,
		Perms:     req.Perms,
		Status:    req.Status,
		Remark:    req.Remark,
	}
}
