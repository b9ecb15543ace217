package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	h, err := HashPassword("secret-pass")
	require.NoError(t, err)
	require.NotEqual(t, "secret-pass", h)

	require.True(t, CheckPassword(h, "secret-pass"))
	require.False(t, CheckPassword(h, "wrong-pass"))
	require.False(t, CheckPassword(h, ""))
}

func TestCheckPasswordGarbageHash(t *testing.T) {
	require.False(t, CheckPassword("not-a-bcrypt-hash", "secret-pass"))
}
