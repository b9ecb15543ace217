package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/balmandal/community-api/internal/auth"
)

// Echo context keys populated by RequireAuth for downstream handlers.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// RequireAuth verifies the bearer token and attaches the subject id and
// role to the request context. All token failures answer the same 401.
func RequireAuth(tokens *auth.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "No token provided.")
			}

			claims, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token.")
			}

			c.Set(CtxUserID, claims.Subject)
			c.Set(CtxRole, claims.Role)
			return next(c)
		}
	}
}

// RequireRole permits the request only when the authenticated role is in
// the allow-set. Composes after RequireAuth; an empty role means the
// verifier never ran.
func RequireRole(allowed ...auth.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, _ := c.Get(CtxRole).(string)
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "No token provided.")
			}
			role, ok := auth.ParseRole(raw)
			if !ok || !role.In(allowed) {
				return echo.NewHTTPError(http.StatusForbidden, "Forbidden: insufficient role.")
			}
			return next(c)
		}
	}
}

// Named gates matching the route tables.
func Admin() echo.MiddlewareFunc      { return RequireRole(auth.AdminRoles...) }
func Volunteer() echo.MiddlewareFunc  { return RequireRole(auth.VolunteerRoles...) }
func Moderator() echo.MiddlewareFunc  { return RequireRole(auth.ModeratorRoles...) }
func SuperAdmin() echo.MiddlewareFunc { return RequireRole(auth.SuperAdminRoles...) }

// UserID returns the authenticated subject id set by RequireAuth.
func UserID(c echo.Context) string {
	id, _ := c.Get(CtxUserID).(string)
	return id
}

// Role returns the authenticated role set by RequireAuth.
func Role(c echo.Context) string {
	role, _ := c.Get(CtxRole).(string)
	return role
}
