package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"

	authmw "github.com/balmandal/community-api/internal/middleware/auth"
	"github.com/balmandal/community-api/internal/models"
	"github.com/balmandal/community-api/internal/service"
	"github.com/balmandal/community-api/internal/store"
	"github.com/balmandal/community-api/internal/util"
)

type AchievementHandler struct {
	Achievements *store.AchievementStore
	Activity     *service.ActivityRecorder
}

// List handles GET /api/v1/achievements (public). A userId filter narrows
// the list to achievements the member participated in.
func (h *AchievementHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	if userID := c.QueryParam("userId"); userID != "" {
		achievements, err := h.Achievements.ListForUser(ctx, userID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
		}
		return c.JSON(http.StatusOK, echo.Map{"achievements": achievements})
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	achievements, total, err := h.Achievements.List(ctx, c.QueryParam("category"), true, offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"achievements": achievements,
		"meta":         pageMeta(page, limit, offset, total),
	})
}

// Create handles POST /api/v1/achievements (admin).
func (h *AchievementHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Title        string               `json:"title"`
		Description  string               `json:"description"`
		Category     string               `json:"category"`
		Level        string               `json:"level"`
		Position     string               `json:"position"`
		Date         time.Time            `json:"date"`
		Participants []models.Participant `json:"participants"`
		Image        string               `json:"image"`
		Certificate  string               `json:"certificate"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Title == "" || req.Date.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "title and date are required")
	}
	if req.Category == "" {
		req.Category = "other"
	}
	if req.Level == "" {
		req.Level = "local"
	}
	if !contains(models.AchievementCategories, req.Category) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid category")
	}
	if !contains(models.AchievementLevels, req.Level) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid level")
	}

	achievement := models.Achievement{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Level:        req.Level,
		Position:     req.Position,
		Date:         req.Date,
		Participants: req.Participants,
		Image:        req.Image,
		Certificate:  req.Certificate,
		IsActive:     true,
		CreatedBy:    authmw.UserID(c),
	}
	if err := h.Achievements.Insert(ctx, &achievement); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	h.Activity.Record(ctx, "achievement_created", achievement.CreatedBy, "Achievement", achievement.ID.Hex(), map[string]any{
		"title": achievement.Title,
	})

	return c.JSON(http.StatusCreated, achievement)
}

// Update handles PUT /api/v1/achievements/:id (admin).
func (h *AchievementHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	var req map[string]any
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	set := bson.M{}
	for _, k := range []string{"title", "description", "category", "level", "position", "participants", "image", "certificate", "isActive"} {
		if v, ok := req[k]; ok {
			set[k] = v
		}
	}
	if raw, ok := req["date"].(string); ok {
		date, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date")
		}
		set["date"] = date
	}
	if cat, ok := set["category"].(string); ok && !contains(models.AchievementCategories, cat) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid category")
	}
	if lvl, ok := set["level"].(string); ok && !contains(models.AchievementLevels, lvl) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid level")
	}
	if len(set) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "nothing to update")
	}

	achievement, err := h.Achievements.Update(ctx, c.Param("id"), set)
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Achievement not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	h.Activity.Record(ctx, "achievement_updated", authmw.UserID(c), "Achievement", achievement.ID.Hex(), nil)

	return c.JSON(http.StatusOK, achievement)
}

// Delete handles DELETE /api/v1/achievements/:id (admin).
func (h *AchievementHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	err := h.Achievements.Delete(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Achievement not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	h.Activity.Record(ctx, "achievement_deleted", authmw.UserID(c), "Achievement", c.Param("id"), nil)

	return c.JSON(http.StatusOK, echo.Map{"message": "Achievement deleted"})
}
