package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/balmandal/community-api/internal/store"
	"github.com/balmandal/community-api/internal/util"
)

type LogHandler struct {
	Logs *store.ActivityLogStore
}

// List handles GET /api/v1/logs (superadmin gate): the audit trail.
func (h *LogHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	logs, total, err := h.Logs.List(ctx, offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"logs": logs,
		"meta": pageMeta(page, limit, offset, total),
	})
}
