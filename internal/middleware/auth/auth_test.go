package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/balmandal/community-api/internal/auth"
)

func newTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService([]byte("test-secret"), time.Hour)
	require.NoError(t, err)
	return tokens
}

func doRequest(authHeader string, mws ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	for i := len(mws) - 1; i >= 0; i-- {
		handler = mws[i](handler)
	}
	return rec, handler(c)
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, code, he.Code)
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	tokens := newTokenService(t)

	for name, header := range map[string]string{
		"no header":      "",
		"no bearer":      "token-without-scheme",
		"wrong scheme":   "Basic dXNlcjpwYXNz",
		"empty bearer":   "Bearer ",
		"garbage bearer": "Bearer not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := doRequest(header, RequireAuth(tokens))
			requireHTTPError(t, err, http.StatusUnauthorized)
		})
	}
}

func TestRequireAuthRejectsForeignSignature(t *testing.T) {
	issuer := newTokenService(t)
	other, err := auth.NewTokenService([]byte("other-secret"), time.Hour)
	require.NoError(t, err)

	token, err := other.Issue("user-1", auth.RoleAdmin)
	require.NoError(t, err)

	_, err = doRequest("Bearer "+token, RequireAuth(issuer))
	requireHTTPError(t, err, http.StatusUnauthorized)
}

func TestRequireAuthPopulatesContext(t *testing.T) {
	tokens := newTokenService(t)
	token, err := tokens.Issue("user-1", auth.RoleVolunteer)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequireAuth(tokens)(func(c echo.Context) error {
		require.Equal(t, "user-1", UserID(c))
		require.Equal(t, "volunteer", Role(c))
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRoleGates(t *testing.T) {
	tokens := newTokenService(t)

	gates := map[string]echo.MiddlewareFunc{
		"admin":      Admin(),
		"volunteer":  Volunteer(),
		"moderator":  Moderator(),
		"superadmin": SuperAdmin(),
	}
	allowed := map[string][]auth.Role{
		"admin":      auth.AdminRoles,
		"volunteer":  auth.VolunteerRoles,
		"moderator":  auth.ModeratorRoles,
		"superadmin": auth.SuperAdminRoles,
	}

	for name, gate := range gates {
		for _, role := range auth.AllRoles() {
			token, err := tokens.Issue("user-1", role)
			require.NoError(t, err)

			rec, err := doRequest("Bearer "+token, RequireAuth(tokens), gate)
			if role.In(allowed[name]) {
				require.NoError(t, err, "%s gate should admit %s", name, role)
				require.Equal(t, http.StatusOK, rec.Code)
			} else {
				requireHTTPError(t, err, http.StatusForbidden)
			}
		}
	}
}

func TestRequireRoleWithoutAuthIsUnauthorized(t *testing.T) {
	// A gate composed without RequireAuth sees no role at all and fails
	// closed as unauthenticated rather than forbidden.
	_, err := doRequest("", Admin())
	requireHTTPError(t, err, http.StatusUnauthorized)
}
