package handlers

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/balmandal/community-api/internal/service/search"
	"github.com/balmandal/community-api/internal/util"
)

type SearchHandler struct {
	ES *elasticsearch.Client
}

// Posts handles GET /api/v1/search?q=... over the post index.
func (h *SearchHandler) Posts(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, hits, err := search.Posts(c.Request().Context(), h.ES, q, from, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total": total,
		"posts": hits,
	})
}
