package handlers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/balmandal/community-api/internal/auth"
)

func TestCanManagePost(t *testing.T) {
	require.True(t, canManagePost("user-1", "user-1", "user"), "authors manage their own posts")
	require.False(t, canManagePost("user-1", "user-2", "user"))
	require.False(t, canManagePost("user-1", "user-2", "volunteer"))

	for _, role := range auth.ModeratorRoles {
		require.True(t, canManagePost("user-1", "user-2", string(role)), "%s manages any post", role)
	}

	// superadmin is outside the moderation allow-set and gets no shortcut
	// past authorship.
	require.False(t, canManagePost("user-1", "user-2", "superadmin"))
	require.True(t, canManagePost("user-1", "user-1", "superadmin"))
}
