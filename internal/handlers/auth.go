package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/balmandal/community-api/internal/logging"
	authmw "github.com/balmandal/community-api/internal/middleware/auth"
	"github.com/balmandal/community-api/internal/service"
)

type AuthHandler struct {
	Svc      *service.AuthService
	Activity *service.ActivityRecorder
}

// Register handles POST /api/v1/register.
func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req struct {
		Name         string `json:"name"`
		Email        string `json:"email"`
		Password     string `json:"password"`
		Phone        string `json:"phone"`
		Age          int    `json:"age"`
		GuardianName string `json:"guardianName"`
		Mandal       string `json:"mandal"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name, email and password are required")
	}

	res, err := h.Svc.Register(ctx, service.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Phone:        req.Phone,
		Age:          req.Age,
		GuardianName: req.GuardianName,
		Mandal:       req.Mandal,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusConflict, "User already exists")
		}
		l.Error("register failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	h.Activity.Record(ctx, "user_registered", res.User.ID, "User", res.User.ID, map[string]any{
		"email": res.User.Email,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"token":   res.Token,
		"user":    res.User,
	})
}

// Login handles POST /api/v1/login.
func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		l.Error("login failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	h.Activity.Record(ctx, "user_logged_in", res.User.ID, "User", res.User.ID, nil)

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"token":   res.Token,
		"user":    res.User,
	})
}

// Me handles GET /api/v1/me.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx := c.Request().Context()

	view, err := h.Svc.Me(ctx, authmw.UserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, view)
}
