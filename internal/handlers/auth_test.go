package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/balmandal/community-api/internal/auth"
	authmw "github.com/balmandal/community-api/internal/middleware/auth"
	"github.com/balmandal/community-api/internal/service"
	"github.com/balmandal/community-api/internal/store"
)

func newAuthHandler(t *testing.T, bootstrap service.BootstrapAdmin) *AuthHandler {
	t.Helper()

	tokens, err := auth.NewTokenService([]byte("test-secret"), time.Hour)
	require.NoError(t, err)

	svc := &service.AuthService{
		Users:     store.NewMemoryUserStore(),
		Tokens:    tokens,
		Bootstrap: bootstrap,
	}
	return &AuthHandler{Svc: svc, Activity: &service.ActivityRecorder{}}
}

func doJSON(method, path, body string) (*httptest.ResponseRecorder, echo.Context) {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

func TestRegisterHandler(t *testing.T) {
	h := newAuthHandler(t, service.BootstrapAdmin{})

	rec, c := doJSON(http.MethodPost, "/api/v1/register",
		`{"name":"Test Member","email":"member@mandal.org","password":"password123","mandal":"central"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Message string `json:"message"`
		Token   string `json:"token"`
		User    struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "User registered successfully", body.Message)
	require.NotEmpty(t, body.Token)
	require.Equal(t, "user", body.User.Role)
	require.NotEmpty(t, body.User.ID)
	require.NotContains(t, rec.Body.String(), "password")
}

func TestRegisterHandlerConflict(t *testing.T) {
	h := newAuthHandler(t, service.BootstrapAdmin{})

	payload := `{"name":"Test Member","email":"member@mandal.org","password":"password123"}`
	_, c := doJSON(http.MethodPost, "/api/v1/register", payload)
	require.NoError(t, h.Register(c))

	_, c2 := doJSON(http.MethodPost, "/api/v1/register", payload)
	err := h.Register(c2)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusConflict, he.Code)
}

func TestRegisterHandlerMissingFields(t *testing.T) {
	h := newAuthHandler(t, service.BootstrapAdmin{})

	for _, payload := range []string{
		`{}`,
		`{"email":"member@mandal.org","password":"password123"}`,
		`{"name":"Test Member","password":"password123"}`,
		`{"name":"Test Member","email":"member@mandal.org"}`,
	} {
		_, c := doJSON(http.MethodPost, "/api/v1/register", payload)
		err := h.Register(c)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		require.Equal(t, http.StatusBadRequest, he.Code)
	}
}

func TestLoginHandler(t *testing.T) {
	h := newAuthHandler(t, service.BootstrapAdmin{})

	_, c := doJSON(http.MethodPost, "/api/v1/register",
		`{"name":"Test Member","email":"member@mandal.org","password":"password123"}`)
	require.NoError(t, h.Register(c))

	rec, c2 := doJSON(http.MethodPost, "/api/v1/login",
		`{"email":"member@mandal.org","password":"password123"}`)
	require.NoError(t, h.Login(c2))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Login successful", body.Message)
	require.NotEmpty(t, body.Token)
}

func TestLoginHandlerInvalidCredentials(t *testing.T) {
	h := newAuthHandler(t, service.BootstrapAdmin{})

	_, c := doJSON(http.MethodPost, "/api/v1/register",
		`{"name":"Test Member","email":"member@mandal.org","password":"password123"}`)
	require.NoError(t, h.Register(c))

	for _, payload := range []string{
		`{"email":"member@mandal.org","password":"wrong"}`,
		`{"email":"nobody@mandal.org","password":"password123"}`,
	} {
		_, c := doJSON(http.MethodPost, "/api/v1/login", payload)
		err := h.Login(c)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		require.Equal(t, http.StatusUnauthorized, he.Code)
		require.Equal(t, "Invalid credentials", he.Message)
	}
}

func TestLoginHandlerBootstrapAdmin(t *testing.T) {
	h := newAuthHandler(t, service.BootstrapAdmin{Email: "root@mandal.org", Password: "env-secret"})

	rec, c := doJSON(http.MethodPost, "/api/v1/login",
		`{"email":"root@mandal.org","password":"env-secret"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		User struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, service.BootstrapAdminID, body.User.ID)
	require.Equal(t, "Super Admin", body.User.Name)
	require.Equal(t, "superadmin", body.User.Role)
}

func TestMeHandler(t *testing.T) {
	h := newAuthHandler(t, service.BootstrapAdmin{})

	rec, c := doJSON(http.MethodPost, "/api/v1/register",
		`{"name":"Test Member","email":"member@mandal.org","password":"password123"}`)
	require.NoError(t, h.Register(c))

	var created struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	recMe, cMe := doJSON(http.MethodGet, "/api/v1/me", "")
	cMe.Set(authmw.CtxUserID, created.User.ID)
	require.NoError(t, h.Me(cMe))
	require.Equal(t, http.StatusOK, recMe.Code)

	var view struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(recMe.Body.Bytes(), &view))
	require.Equal(t, created.User.ID, view.ID)
	require.Equal(t, "member@mandal.org", view.Email)
}
