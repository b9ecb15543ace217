package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	authmw "github.com/balmandal/community-api/internal/middleware/auth"
	"github.com/balmandal/community-api/internal/models"
	"github.com/balmandal/community-api/internal/service"
	"github.com/balmandal/community-api/internal/store"
)

type AttendanceHandler struct {
	Attendance *store.AttendanceStore
	Activity   *service.ActivityRecorder
}

// Mark handles POST /api/v1/attendance (volunteer gate). Upserts, so a
// second mark for the same user and day corrects the first.
func (h *AttendanceHandler) Mark(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		UserID string    `json:"user"`
		Date   time.Time `json:"date"`
		Mandal string    `json:"mandal"`
		Status string    `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.UserID == "" || req.Mandal == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user and mandal are required")
	}
	if req.Status != models.AttendancePresent && req.Status != models.AttendanceAbsent {
		return echo.NewHTTPError(http.StatusBadRequest, "status must be present or absent")
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}

	mark, err := h.Attendance.Mark(ctx, &models.Attendance{
		UserID:   req.UserID,
		Date:     req.Date,
		Mandal:   req.Mandal,
		Status:   req.Status,
		MarkedBy: authmw.UserID(c),
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	h.Activity.Record(ctx, "attendance_marked", mark.MarkedBy, "Attendance", mark.ID.Hex(), map[string]any{
		"user":   mark.UserID,
		"status": mark.Status,
	})

	return c.JSON(http.StatusOK, mark)
}

// Mine handles GET /api/v1/attendance/me (member self view).
func (h *AttendanceHandler) Mine(c echo.Context) error {
	marks, err := h.Attendance.ListForUser(c.Request().Context(), authmw.UserID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, marks)
}

// ByDay handles GET /api/v1/attendance?date=...&mandal=... (volunteer
// gate): the roster view for one day.
func (h *AttendanceHandler) ByDay(c echo.Context) error {
	day := time.Now()
	if raw := c.QueryParam("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		}
		day = parsed
	}

	marks, err := h.Attendance.ListByDay(c.Request().Context(), day, c.QueryParam("mandal"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, marks)
}
