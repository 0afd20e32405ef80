package domain

import "strings"

// Role is a coarse capability label carried in tokens and on user records.
type Role string

const (
	RoleUser   Role = "USER"
	RoleSeller Role = "SELLER"
	RoleAdmin  Role = "ADMIN"
)

// ParseRole normalizes a raw claim value into a Role.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleUser:
		return RoleUser, true
	case RoleSeller:
		return RoleSeller, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// RoleSet is the set of roles attached to an identity.
type RoleSet map[Role]struct{}

// NewRoleSet builds a set from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

// Has reports whether the set contains the role.
func (s RoleSet) Has(role Role) bool {
	_, ok := s[role]
	return ok
}

// Intersects reports whether the set shares at least one role with other.
func (s RoleSet) Intersects(other RoleSet) bool {
	for role := range other {
		if s.Has(role) {
			return true
		}
	}
	return false
}

// Values returns the roles in the set.
func (s RoleSet) Values() []Role {
	roles := make([]Role, 0, len(s))
	for role := range s {
		roles = append(roles, role)
	}
	return roles
}
