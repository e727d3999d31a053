// Package entity contains the core business objects of the project.
package entity

// Role represents the account class of a user. It replaces the reference
// system's role-as-integer dispatch with a closed enumeration.
type Role int

const (
	// RoleMember indicates an ordinary registered member. This is the
	// default for every new registration.
	RoleMember Role = 1
	// RoleAdministrator indicates an administrative account.
	RoleAdministrator Role = 2
	// RolePartner indicates a partner-company account.
	RolePartner Role = 3
)

// String returns a human-readable name for the Role.
func (r Role) String() string {
	switch r {
	case RoleMember:
		return "member"
	case RoleAdministrator:
		return "administrator"
	case RolePartner:
		return "partner"
	default:
		return "unknown"
	}
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleMember, RoleAdministrator, RolePartner:
		return true
	default:
		return false
	}
}
