package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// AuditReader lists recent audit records.
type AuditReader interface {
	Recent(ctx context.Context, limit int) ([]domain.AuditRecord, error)
}

// AuditHandler lists recent dashboard mutations. A nil reader means the
// audit trail is disabled.
type AuditHandler struct {
	repo AuditReader
}

func NewAuditHandler(repo AuditReader) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// Recent handles GET /api/admin/audit.
//
// @Summary      Recent admin mutations
// @Tags         admin
// @Produce      json
// @Param        limit  query     int  false  "Max records (1-500, default 50)"
// @Success      200    {array}   domain.AuditRecord
// @Failure      400    {object}  map[string]string
// @Failure      503    {object}  map[string]string
// @Router       /api/admin/audit [get]
func (h *AuditHandler) Recent(c echo.Context) error {
	if h.repo == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "audit trail disabled")
	}

	limit := defaultAuditLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxAuditLimit {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be between 1 and 500")
		}
		limit = n
	}

	records, err := h.repo.Recent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	if records == nil {
		records = []domain.AuditRecord{}
	}
	return c.JSON(http.StatusOK, records)
}
