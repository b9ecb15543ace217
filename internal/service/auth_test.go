package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/balmandal/community-api/internal/auth"
	"github.com/balmandal/community-api/internal/hash"
	"github.com/balmandal/community-api/internal/models"
	"github.com/balmandal/community-api/internal/store"
)

func newAuthService(t *testing.T, bootstrap BootstrapAdmin) (*AuthService, *store.MemoryUserStore) {
	t.Helper()

	tokens, err := auth.NewTokenService([]byte("test-secret"), time.Hour)
	require.NoError(t, err)

	users := store.NewMemoryUserStore()
	return &AuthService{Users: users, Tokens: tokens, Bootstrap: bootstrap}, users
}

func seedUser(t *testing.T, users *store.MemoryUserStore, email, password string, role auth.Role) *models.User {
	t.Helper()

	pwHash, err := hash.HashPassword(password)
	require.NoError(t, err)

	u := &models.User{
		Name:     "Test Member",
		Email:    email,
		Password: pwHash,
		Role:     string(role),
		Mandal:   "central",
	}
	require.NoError(t, users.Insert(context.Background(), u))
	return u
}

func TestLoginSuccessCarriesStoredRole(t *testing.T) {
	svc, users := newAuthService(t, BootstrapAdmin{})
	ctx := context.Background()

	for _, role := range auth.AllRoles() {
		email := string(role) + "@mandal.org"
		seedUser(t, users, email, "password123", role)

		res, err := svc.Login(ctx, email, "password123")
		require.NoError(t, err)
		require.Equal(t, string(role), res.User.Role)

		claims, err := svc.Tokens.Parse(res.Token)
		require.NoError(t, err)
		require.Equal(t, string(role), claims.Role)
		require.Equal(t, res.User.ID, claims.Subject)
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc, users := newAuthService(t, BootstrapAdmin{})
	ctx := context.Background()

	seedUser(t, users, "member@mandal.org", "password123", auth.RoleUser)

	_, wrongPass := svc.Login(ctx, "member@mandal.org", "wrong")
	_, unknownEmail := svc.Login(ctx, "nobody@mandal.org", "password123")

	require.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	require.Equal(t, wrongPass, unknownEmail)
}

func TestLoginNeverReturnsPasswordHash(t *testing.T) {
	svc, users := newAuthService(t, BootstrapAdmin{})
	ctx := context.Background()

	seedUser(t, users, "member@mandal.org", "password123", auth.RoleUser)

	res, err := svc.Login(ctx, "member@mandal.org", "password123")
	require.NoError(t, err)
	require.Equal(t, "member@mandal.org", res.User.Email)
	require.NotEmpty(t, res.User.ID)
}

func TestBootstrapLogin(t *testing.T) {
	bootstrap := BootstrapAdmin{Email: "root@mandal.org", Password: "env-secret"}
	svc, _ := newAuthService(t, bootstrap)
	ctx := context.Background()

	res, err := svc.Login(ctx, "root@mandal.org", "env-secret")
	require.NoError(t, err)
	require.Equal(t, BootstrapAdminID, res.User.ID)
	require.Equal(t, "Super Admin", res.User.Name)
	require.Equal(t, string(auth.RoleSuperAdmin), res.User.Role)

	claims, err := svc.Tokens.Parse(res.Token)
	require.NoError(t, err)
	require.Equal(t, BootstrapAdminID, claims.Subject)
	require.Equal(t, string(auth.RoleSuperAdmin), claims.Role)
}

func TestBootstrapLoginRejectsWrongPassword(t *testing.T) {
	bootstrap := BootstrapAdmin{Email: "root@mandal.org", Password: "env-secret"}
	svc, _ := newAuthService(t, bootstrap)
	ctx := context.Background()

	_, err := svc.Login(ctx, "root@mandal.org", "guess")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestBootstrapDisabledWhenUnconfigured(t *testing.T) {
	cases := []BootstrapAdmin{
		{},
		{Email: "root@mandal.org"},
		{Password: "env-secret"},
	}

	ctx := context.Background()
	for _, bootstrap := range cases {
		svc, _ := newAuthService(t, bootstrap)
		_, err := svc.Login(ctx, "root@mandal.org", "env-secret")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
}

func TestStoredAccountShadowsBootstrap(t *testing.T) {
	bootstrap := BootstrapAdmin{Email: "root@mandal.org", Password: "env-secret"}
	svc, users := newAuthService(t, bootstrap)
	ctx := context.Background()

	stored := seedUser(t, users, "root@mandal.org", "stored-pass", auth.RoleUser)

	// The env pair no longer works for this email: the stored account owns it.
	_, err := svc.Login(ctx, "root@mandal.org", "env-secret")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// The stored credentials do, with the stored role rather than superadmin.
	res, err := svc.Login(ctx, "root@mandal.org", "stored-pass")
	require.NoError(t, err)
	require.Equal(t, stored.ID.Hex(), res.User.ID)
	require.Equal(t, string(auth.RoleUser), res.User.Role)
}

func TestRegisterDefaultsToMemberRole(t *testing.T) {
	svc, _ := newAuthService(t, BootstrapAdmin{})
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{
		Name:     "New Member",
		Email:    "new@mandal.org",
		Password: "password123",
		Mandal:   "central",
	})
	require.NoError(t, err)
	require.Equal(t, string(auth.RoleUser), res.User.Role)

	claims, err := svc.Tokens.Parse(res.Token)
	require.NoError(t, err)
	require.Equal(t, res.User.ID, claims.Subject)
	require.Equal(t, string(auth.RoleUser), claims.Role)
}

func TestRegisterConflictKeepsFirstCredential(t *testing.T) {
	svc, _ := newAuthService(t, BootstrapAdmin{})
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "First", Email: "dup@mandal.org", Password: "first-pass"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "Second", Email: "dup@mandal.org", Password: "second-pass"})
	require.ErrorIs(t, err, ErrEmailTaken)

	res, err := svc.Login(ctx, "dup@mandal.org", "first-pass")
	require.NoError(t, err)
	require.Equal(t, "First", res.User.Name)

	_, err = svc.Login(ctx, "dup@mandal.org", "second-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestMe(t *testing.T) {
	bootstrap := BootstrapAdmin{Email: "root@mandal.org", Password: "env-secret"}
	svc, users := newAuthService(t, bootstrap)
	ctx := context.Background()

	stored := seedUser(t, users, "member@mandal.org", "password123", auth.RoleVolunteer)

	view, err := svc.Me(ctx, stored.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, stored.ID.Hex(), view.ID)
	require.Equal(t, string(auth.RoleVolunteer), view.Role)

	view, err = svc.Me(ctx, BootstrapAdminID)
	require.NoError(t, err)
	require.Equal(t, "Super Admin", view.Name)
	require.Equal(t, string(auth.RoleSuperAdmin), view.Role)

	_, err = svc.Me(ctx, "64b000000000000000000000")
	require.ErrorIs(t, err, ErrUserNotFound)
}
