package domain

// Identity is the authenticated caller derived from a validated token.
// It is ephemeral, built per request, and never persisted.
type Identity struct {
	Subject string
	Roles   RoleSet
}

// HasRole reports whether the identity carries the role.
func (i *Identity) HasRole(role Role) bool {
	return i != nil && i.Roles.Has(role)
}
