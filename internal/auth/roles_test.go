package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, role := range AllRoles() {
		parsed, ok := ParseRole(string(role))
		require.True(t, ok)
		require.Equal(t, role, parsed)
	}

	for _, raw := range []string{"", "root", "Admin", "SUPERADMIN"} {
		_, ok := ParseRole(raw)
		require.False(t, ok, "expected %q to be rejected", raw)
	}
}

func TestGateAllowSets(t *testing.T) {
	cases := []struct {
		name    string
		set     []Role
		allowed []Role
	}{
		{"admin", AdminRoles, []Role{RoleAdmin, RoleSuperAdmin}},
		{"volunteer", VolunteerRoles, []Role{RoleVolunteer, RoleAdmin, RoleSuperAdmin}},
		{"moderator", ModeratorRoles, []Role{RoleAdmin, RoleModerator}},
		{"superadmin", SuperAdminRoles, []Role{RoleSuperAdmin}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, role := range AllRoles() {
				want := role.In(tc.allowed)
				require.Equal(t, want, role.In(tc.set), "role %s against %s gate", role, tc.name)
			}
		})
	}
}

func TestModeratorGateExcludesSuperAdmin(t *testing.T) {
	// The moderation allow-set is admin+moderator only; superadmin is not a
	// member and must go through an admin-granted role change to moderate.
	require.False(t, RoleSuperAdmin.In(ModeratorRoles))
	require.False(t, RoleVolunteer.In(ModeratorRoles))
	require.False(t, RoleUser.In(ModeratorRoles))
}
