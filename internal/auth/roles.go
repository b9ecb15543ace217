package auth

// Role is one of the closed set of role tags stored on a user document and
// carried inside session tokens.
type Role string

const (
	RoleUser       Role = "user"
	RoleVolunteer  Role = "volunteer"
	RoleModerator  Role = "moderator"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// Allow-sets used by the route gates. Gates check plain set membership, so
// every permission decision is a single slice lookup over one of these.
var (
	AdminRoles      = []Role{RoleAdmin, RoleSuperAdmin}
	VolunteerRoles  = []Role{RoleVolunteer, RoleAdmin, RoleSuperAdmin}
	ModeratorRoles  = []Role{RoleAdmin, RoleModerator}
	SuperAdminRoles = []Role{RoleSuperAdmin}
)

// ParseRole parses a string into a Role, reporting whether it is a member of
// the closed role set.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.IsValid()
}

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleVolunteer, RoleModerator, RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

// In checks membership of r in an explicit allow-set.
func (r Role) In(allowed []Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// AllRoles returns the closed role set.
func AllRoles() []Role {
	return []Role{RoleUser, RoleVolunteer, RoleModerator, RoleAdmin, RoleSuperAdmin}
}
