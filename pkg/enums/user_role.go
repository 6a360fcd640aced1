package enums

import "fmt"

// UserRole represents the closed set of platform roles.
type UserRole string

const (
	UserRoleSuperAdmin UserRole = "super_admin"
	UserRoleAdmin      UserRole = "admin"
	UserRoleTechnician UserRole = "technician"
)

var validUserRoles = []UserRole{
	UserRoleSuperAdmin,
	UserRoleAdmin,
	UserRoleTechnician,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsElevated reports whether the role may approve returns, dispose assets and
// force-set statuses.
func (r UserRole) IsElevated() bool {
	return r == UserRoleSuperAdmin || r == UserRoleAdmin
}

// CanSwitchStore reports whether the role may pick its active store per request.
// Every other role is pinned to its assigned store.
func (r UserRole) CanSwitchStore() bool {
	return r == UserRoleSuperAdmin
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
