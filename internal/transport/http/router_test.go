package httpserver

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func registeredRoutes(t *testing.T) map[string]bool {
	t.Helper()

	e := echo.New()
	Register(e, &Deps{})

	routes := map[string]bool{}
	for _, r := range e.Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	return routes
}

func TestRegisterMemberRoutes(t *testing.T) {
	routes := registeredRoutes(t)

	for _, want := range []string{
		http.MethodPost + " /api/v1/register",
		http.MethodPost + " /api/v1/login",
		http.MethodGet + " /api/v1/me",
		http.MethodGet + " /api/v1/posts/:id",
		http.MethodPut + " /api/v1/posts/:id",
		http.MethodDelete + " /api/v1/posts/:id",
		http.MethodDelete + " /api/v1/posts/:id/comments/:commentId",
		http.MethodPost + " /api/v1/events/:id/join",
		http.MethodDelete + " /api/v1/events/:id/join",
		http.MethodGet + " /api/v1/notifications/unread-count",
		http.MethodPut + " /api/v1/notifications/read-all",
		http.MethodPut + " /api/v1/notifications/:id/read",
	} {
		require.Contains(t, routes, want)
	}
}

func TestRegisterAdminRoutes(t *testing.T) {
	routes := registeredRoutes(t)

	for _, want := range []string{
		http.MethodGet + " /api/v1/users",
		http.MethodPut + " /api/v1/users/:id/role",
		http.MethodPut + " /api/v1/users/:id/password",
		http.MethodPut + " /api/v1/posts/:id/approve",
		http.MethodGet + " /api/v1/logs",
	} {
		require.Contains(t, routes, want)
	}
}

func TestRegisterSearchIsOptional(t *testing.T) {
	routes := registeredRoutes(t)
	require.NotContains(t, routes, http.MethodGet+" /api/v1/search")
}
