package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"

	authmw "github.com/balmandal/community-api/internal/middleware/auth"
	"github.com/balmandal/community-api/internal/models"
	"github.com/balmandal/community-api/internal/service"
	"github.com/balmandal/community-api/internal/store"
	"github.com/balmandal/community-api/internal/util"
)

type NotificationHandler struct {
	Notifications *store.NotificationStore
	Activity      *service.ActivityRecorder
}

// List handles GET /api/v1/notifications (member): broadcasts plus ones
// addressed to the caller.
func (h *NotificationHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	ns, total, err := h.Notifications.ListFor(ctx, authmw.UserID(c), offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"notifications": ns,
		"meta":          pageMeta(page, limit, offset, total),
	})
}

// ListAll handles GET /api/v1/notifications/all (admin).
func (h *NotificationHandler) ListAll(c echo.Context) error {
	ctx := c.Request().Context()

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	ns, total, err := h.Notifications.ListAll(ctx, offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"notifications": ns,
		"meta":          pageMeta(page, limit, offset, total),
	})
}

// Create handles POST /api/v1/notifications (admin).
func (h *NotificationHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Type        string   `json:"type"`
		Priority    string   `json:"priority"`
		Recipients  []string `json:"recipients"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Title == "" || req.Description == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title and description are required")
	}
	if req.Type == "" {
		req.Type = "info"
	}
	if req.Priority == "" {
		req.Priority = "medium"
	}
	if !contains(models.NotificationTypes, req.Type) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid type")
	}
	if !contains(models.NotificationPriorities, req.Priority) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid priority")
	}

	n := models.Notification{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Priority:    req.Priority,
		Recipients:  req.Recipients,
		CreatedBy:   authmw.UserID(c),
	}
	if err := h.Notifications.Insert(ctx, &n); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	h.Activity.Record(ctx, "notification_created", n.CreatedBy, "Notification", n.ID.Hex(), map[string]any{
		"broadcast": len(n.Recipients) == 0,
	})

	return c.JSON(http.StatusCreated, n)
}

// MarkRead handles PUT /api/v1/notifications/:id/read (member).
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	err := h.Notifications.MarkRead(c.Request().Context(), c.Param("id"), authmw.UserID(c))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification marked as read"})
}

// MarkAllRead handles PUT /api/v1/notifications/read-all (member).
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	if err := h.Notifications.MarkAllRead(c.Request().Context(), authmw.UserID(c)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "All notifications marked as read"})
}

// UnreadCount handles GET /api/v1/notifications/unread-count (member).
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	count, err := h.Notifications.UnreadCount(c.Request().Context(), authmw.UserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"unreadCount": count})
}

// Update handles PUT /api/v1/notifications/:id (admin).
func (h *NotificationHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	var req map[string]any
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	set := bson.M{}
	for _, k := range []string{"title", "description", "type", "priority", "recipients"} {
		if v, ok := req[k]; ok {
			set[k] = v
		}
	}
	if t, ok := set["type"].(string); ok && !contains(models.NotificationTypes, t) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid type")
	}
	if p, ok := set["priority"].(string); ok && !contains(models.NotificationPriorities, p) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid priority")
	}
	if len(set) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "nothing to update")
	}

	n, err := h.Notifications.Update(ctx, c.Param("id"), set)
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	h.Activity.Record(ctx, "notification_updated", authmw.UserID(c), "Notification", n.ID.Hex(), nil)

	return c.JSON(http.StatusOK, n)
}

// Delete handles DELETE /api/v1/notifications/:id (admin).
func (h *NotificationHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	err := h.Notifications.Delete(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	h.Activity.Record(ctx, "notification_deleted", authmw.UserID(c), "Notification", c.Param("id"), nil)

	return c.JSON(http.StatusOK, echo.Map{"message": "Notification deleted"})
}
