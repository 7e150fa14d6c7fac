package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adminhub/admin-system/internal/core/domain"
	"github.com/adminhub/admin-system/internal/core/ports"
)

// AuditHandler exposes the audit trail, newest first.
type AuditHandler struct {
	audit ports.AuditRepository
}

func NewAuditHandler(audit ports.AuditRepository) *AuditHandler {
	return &AuditHandler{audit: audit}
}

type listAuditResponse struct {
	Items []domain.AuditEvent `json:"items"`
	Total int64               `json:"total"`
}

// List returns a page of audit events, newest first.
//
// @Summary      List audit events
// @Tags         audit
// @Produce      json
// @Param        page       query     int  false  "Page (1-based)"
// @Param        page_size  query     int  false  "Page size"
// @Success      200        {object}  listAuditResponse
// @Failure      403        {object}  map[string]string
// @Router       /api/audit/logs [get]
func (h *AuditHandler) List(c echo.Context) error {
	page, pageSize := pagination(c)
	items, total, err := h.audit.List(c.Request().Context(), page, pageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listAuditResponse{Items: items, Total: total})
}
