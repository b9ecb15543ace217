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
)

type MentorHandler struct {
	Mentors  *store.MentorStore
	Activity *service.ActivityRecorder
}

// List handles GET /api/v1/mentors (public): active mentors in display
// order. Admins pass all=true to include inactive ones.
func (h *MentorHandler) List(c echo.Context) error {
	activeOnly := c.QueryParam("all") != "true"
	mentors, err := h.Mentors.List(c.Request().Context(), activeOnly)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, mentors)
}

// Create handles POST /api/v1/mentors (admin).
func (h *MentorHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Name           string   `json:"name"`
		Role           string   `json:"role"`
		Description    string   `json:"description"`
		Image          string   `json:"image"`
		Email          string   `json:"email"`
		Phone          string   `json:"phone"`
		Specialization []string `json:"specialization"`
		Experience     int      `json:"experience"`
		Order          int      `json:"order"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" || req.Role == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and role are required")
	}

	mentor := models.Mentor{
		Name:           req.Name,
		Role:           req.Role,
		Description:    req.Description,
		Image:          req.Image,
		Email:          req.Email,
		Phone:          req.Phone,
		Specialization: req.Specialization,
		Experience:     req.Experience,
		IsActive:       true,
		Order:          req.Order,
	}
	if err := h.Mentors.Insert(ctx, &mentor); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	h.Activity.Record(ctx, "mentor_created", authmw.UserID(c), "Mentor", mentor.ID.Hex(), nil)

	return c.JSON(http.StatusCreated, mentor)
}

// Update handles PUT /api/v1/mentors/:id (admin).
func (h *MentorHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	var req map[string]any
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	set := bson.M{}
	for _, k := range []string{"name", "role", "description", "image", "email", "phone", "specialization", "experience", "isActive", "order"} {
		if v, ok := req[k]; ok {
			set[k] = v
		}
	}
	if len(set) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "nothing to update")
	}

	mentor, err := h.Mentors.Update(ctx, c.Param("id"), set)
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Mentor not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	h.Activity.Record(ctx, "mentor_updated", authmw.UserID(c), "Mentor", mentor.ID.Hex(), nil)

	return c.JSON(http.StatusOK, mentor)
}

// Delete handles DELETE /api/v1/mentors/:id (admin).
func (h *MentorHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	err := h.Mentors.Delete(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Mentor not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	h.Activity.Record(ctx, "mentor_deleted", authmw.UserID(c), "Mentor", c.Param("id"), nil)

	return c.JSON(http.StatusOK, echo.Map{"message": "Mentor deleted"})
}
