package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/balmandal/community-api/internal/auth"
	"github.com/balmandal/community-api/internal/hash"
	"github.com/balmandal/community-api/internal/logging"
	authmw "github.com/balmandal/community-api/internal/middleware/auth"
	"github.com/balmandal/community-api/internal/models"
	"github.com/balmandal/community-api/internal/service"
	"github.com/balmandal/community-api/internal/store"
	"github.com/balmandal/community-api/internal/util"
)

type UserHandler struct {
	Users    *store.UserStore
	Activity *service.ActivityRecorder
}

// GetProfile handles GET /api/v1/users/profile.
func (h *UserHandler) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()

	userID := authmw.UserID(c)
	if userID == service.BootstrapAdminID {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	user, err := h.Users.FindByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, user.View())
}

// UpdateProfile handles PUT /api/v1/users/profile. Members can edit their
// own contact fields; role and credential changes go through the admin
// operations.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Name         string `json:"name"`
		Phone        string `json:"phone"`
		Age          int    `json:"age"`
		GuardianName string `json:"guardianName"`
		Mandal       string `json:"mandal"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	set := bson.M{}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Phone != "" {
		set["phone"] = req.Phone
	}
	if req.Age > 0 {
		set["age"] = req.Age
	}
	if req.GuardianName != "" {
		set["guardianName"] = req.GuardianName
	}
	if req.Mandal != "" {
		set["mandal"] = req.Mandal
	}
	if len(set) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "nothing to update")
	}

	user, err := h.Users.Update(ctx, authmw.UserID(c), set)
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Profile updated successfully",
		"user":    user.View(),
	})
}

// Community handles GET /api/v1/users/community: the public member cards
// on the home page.
func (h *UserHandler) Community(c echo.Context) error {
	views, err := h.Users.Community(c.Request().Context(), 10)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, views)
}

// List handles GET /api/v1/users (admin): filtered, paginated listing.
func (h *UserHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	filter := store.UserFilter{
		Search: c.QueryParam("search"),
		Mandal: c.QueryParam("mandal"),
		Age:    parseIntDefault(c.QueryParam("age"), 0),
	}

	users, total, err := h.Users.List(ctx, filter, offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	views := make([]models.UserView, len(users))
	for i := range users {
		views[i] = users[i].View()
	}
	return c.JSON(http.StatusOK, echo.Map{
		"users": views,
		"meta":  pageMeta(page, limit, offset, total),
	})
}

// Create handles POST /api/v1/users (admin): add a member with an explicit
// role.
func (h *UserHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_create")

	var req struct {
		Name         string `json:"name"`
		Email        string `json:"email"`
		Password     string `json:"password"`
		Phone        string `json:"phone"`
		Age          int    `json:"age"`
		GuardianName string `json:"guardianName"`
		Mandal       string `json:"mandal"`
		Role         string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name, email and password are required")
	}

	role := auth.RoleUser
	if req.Role != "" {
		parsed, ok := auth.ParseRole(req.Role)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid role")
		}
		role = parsed
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("hash failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		Password:     pwHash,
		Phone:        req.Phone,
		Age:          req.Age,
		GuardianName: req.GuardianName,
		Mandal:       req.Mandal,
		Role:         string(role),
	}
	if err := h.Users.Insert(ctx, &user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusConflict, "User already exists")
		}
		l.Error("insert failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	h.Activity.Record(ctx, "user_created", authmw.UserID(c), "User", user.ID.Hex(), map[string]any{
		"role": user.Role,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User added successfully",
		"user":    user.View(),
	})
}

// Update handles PUT /api/v1/users/:id (admin). Password and role are
// stripped by the store; they have dedicated endpoints.
func (h *UserHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	var req map[string]any
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	set := bson.M{}
	for _, k := range []string{"name", "email", "phone", "age", "guardianName", "mandal", "photo"} {
		if v, ok := req[k]; ok {
			set[k] = v
		}
	}
	if len(set) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "nothing to update")
	}

	user, err := h.Users.Update(ctx, c.Param("id"), set)
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	if errors.Is(err, store.ErrEmailTaken) {
		return echo.NewHTTPError(http.StatusConflict, "User already exists")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	h.Activity.Record(ctx, "user_updated", authmw.UserID(c), "User", user.ID.Hex(), nil)

	return c.JSON(http.StatusOK, echo.Map{
		"message": "User updated",
		"user":    user.View(),
	})
}

// UpdateRole handles PUT /api/v1/users/:id/role (admin).
func (h *UserHandler) UpdateRole(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	role, ok := auth.ParseRole(req.Role)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid role")
	}

	user, err := h.Users.UpdateRole(ctx, c.Param("id"), string(role))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	h.Activity.Record(ctx, "user_role_updated", authmw.UserID(c), "User", user.ID.Hex(), map[string]any{
		"role": user.Role,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": "User role updated successfully",
		"user":    user.View(),
	})
}

// ResetPassword handles PUT /api/v1/users/:id/password (admin).
func (h *UserHandler) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_reset_password")

	var req struct {
		NewPassword string `json:"newPassword"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.NewPassword == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "newPassword is required")
	}

	pwHash, err := hash.HashPassword(req.NewPassword)
	if err != nil {
		l.Error("hash failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	err = h.Users.UpdatePassword(ctx, c.Param("id"), pwHash)
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	h.Activity.Record(ctx, "user_password_reset", authmw.UserID(c), "User", c.Param("id"), nil)

	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset successfully"})
}

// Delete handles DELETE /api/v1/users/:id (admin).
func (h *UserHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	err := h.Users.Delete(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	h.Activity.Record(ctx, "user_deleted", authmw.UserID(c), "User", c.Param("id"), nil)

	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted"})
}
