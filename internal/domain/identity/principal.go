package identity

// Principal is the authenticated identity making a request, resolved once
// from the bearer token by the HTTP layer and passed into services.
type Principal struct {
	UserID   uint
	Username string
	Role     Role
}

// IsAdmin returns true if the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanActFor reports whether the principal may act on resources owned by
// the given user: owners always can, admins can for anyone.
func (p Principal) CanActFor(userID uint) bool {
	return p.UserID == userID || p.IsAdmin()
}
