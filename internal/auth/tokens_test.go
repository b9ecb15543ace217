package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewTokenServiceEmptySecret(t *testing.T) {
	_, err := NewTokenService(nil, time.Hour)
	require.ErrorIs(t, err, ErrMissingSecret)

	_, err = NewTokenService([]byte{}, time.Hour)
	require.ErrorIs(t, err, ErrMissingSecret)
}

func TestNewTokenServiceDefaultTTL(t *testing.T) {
	svc, err := NewTokenService([]byte("secret"), 0)
	require.NoError(t, err)
	require.Equal(t, DefaultTokenTTL, svc.TTL())
}

func TestIssueParseRoundTrip(t *testing.T) {
	svc, err := NewTokenService([]byte("secret"), time.Hour)
	require.NoError(t, err)

	for _, role := range AllRoles() {
		token, err := svc.Issue("user-123", role)
		require.NoError(t, err)

		claims, err := svc.Parse(token)
		require.NoError(t, err)
		require.Equal(t, "user-123", claims.Subject)
		require.Equal(t, string(role), claims.Role)
		require.NotEmpty(t, claims.ID)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	svc, err := NewTokenService([]byte("secret"), time.Nanosecond)
	require.NoError(t, err)

	token, err := svc.Issue("user-123", RoleUser)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = svc.Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer, err := NewTokenService([]byte("secret-a"), time.Hour)
	require.NoError(t, err)
	verifier, err := NewTokenService([]byte("secret-b"), time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue("user-123", RoleAdmin)
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	svc, err := NewTokenService([]byte("secret"), time.Hour)
	require.NoError(t, err)

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Parse(raw)
		require.ErrorIs(t, err, ErrInvalidToken)
	}
}
