package domain

// Role is the coarse-grained authorization tier of a user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
	RoleUser    Role = "user"
)

// String returns the role as stored in the database and token claims.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether r is one of the closed set of roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleCashier, RoleUser:
		return true
	}
	return false
}

// ParseRole parses a stored or claimed role string.
// Unknown values map to RoleUser so a corrupted column or claim can never
// grant more than the lowest tier.
func ParseRole(s string) Role {
	r := Role(s)
	if !r.IsValid() {
		return RoleUser
	}
	return r
}

// NormalizeRequestedRole allow-lists a role requested during public
// registration. The requested role is attacker-controllable input: only the
// self-assignable tiers pass through, everything else (including "admin")
// falls back to RoleUser. Admin accounts are created by the seeder or by an
// existing admin.
func NormalizeRequestedRole(s string) Role {
	switch Role(s) {
	case RoleCashier, RoleUser:
		return Role(s)
	}
	return RoleUser
}
