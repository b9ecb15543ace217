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

type EventHandler struct {
	Events   *store.EventStore
	Activity *service.ActivityRecorder
}

// List handles GET /api/v1/events (public).
func (h *EventHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	category := c.QueryParam("category")
	upcoming := c.QueryParam("upcoming") == "true"

	events, total, err := h.Events.List(ctx, category, upcoming, offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"events": events,
		"meta":   pageMeta(page, limit, offset, total),
	})
}

// Get handles GET /api/v1/events/:id (public).
func (h *EventHandler) Get(c echo.Context) error {
	event, err := h.Events.FindByID(c.Request().Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Event not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, event)
}

// Create handles POST /api/v1/events (admin).
func (h *EventHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Title        string    `json:"title"`
		Description  string    `json:"description"`
		Date         time.Time `json:"date"`
		Time         string    `json:"time"`
		Venue        string    `json:"venue"`
		Image        string    `json:"image"`
		MaxAttendees int       `json:"maxAttendees"`
		Category     string    `json:"category"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Title == "" || req.Date.IsZero() || req.Venue == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title, date and venue are required")
	}
	if req.Category == "" {
		req.Category = "spiritual"
	}
	if !contains(models.EventCategories, req.Category) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid category")
	}

	event := models.Event{
		Title:        req.Title,
		Description:  req.Description,
		Date:         req.Date,
		Time:         req.Time,
		Venue:        req.Venue,
		Image:        req.Image,
		MaxAttendees: req.MaxAttendees,
		Category:     req.Category,
		CreatedBy:    authmw.UserID(c),
	}
	if err := h.Events.Insert(ctx, &event); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	h.Activity.Record(ctx, "event_created", authmw.UserID(c), "Event", event.ID.Hex(), map[string]any{
		"title": event.Title,
	})

	return c.JSON(http.StatusCreated, event)
}

// Update handles PUT /api/v1/events/:id (admin).
func (h *EventHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	var req map[string]any
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	set := bson.M{}
	for _, k := range []string{"title", "description", "time", "venue", "image", "maxAttendees", "category"} {
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
	if cat, ok := set["category"].(string); ok && !contains(models.EventCategories, cat) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid category")
	}
	if len(set) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "nothing to update")
	}

	event, err := h.Events.Update(ctx, c.Param("id"), set)
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Event not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	h.Activity.Record(ctx, "event_updated", authmw.UserID(c), "Event", event.ID.Hex(), nil)

	return c.JSON(http.StatusOK, event)
}

// Delete handles DELETE /api/v1/events/:id (admin).
func (h *EventHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	err := h.Events.Delete(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Event not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	h.Activity.Record(ctx, "event_deleted", authmw.UserID(c), "Event", c.Param("id"), nil)

	return c.JSON(http.StatusOK, echo.Map{"message": "Event deleted"})
}

// Join handles POST /api/v1/events/:id/join (member).
func (h *EventHandler) Join(c echo.Context) error {
	ctx := c.Request().Context()

	userID := authmw.UserID(c)
	if userID == service.BootstrapAdminID {
		return echo.NewHTTPError(http.StatusBadRequest, "bootstrap admin cannot join events")
	}

	event, err := h.Events.Join(ctx, c.Param("id"), userID)
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Event not found or full")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Joined event",
		"event":   event,
	})
}

// Leave handles DELETE /api/v1/events/:id/join (member).
func (h *EventHandler) Leave(c echo.Context) error {
	ctx := c.Request().Context()

	userID := authmw.UserID(c)
	if userID == service.BootstrapAdminID {
		return echo.NewHTTPError(http.StatusBadRequest, "bootstrap admin cannot join events")
	}

	event, err := h.Events.Leave(ctx, c.Param("id"), userID)
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Event not found or not joined")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Left event",
		"event":   event,
	})
}
