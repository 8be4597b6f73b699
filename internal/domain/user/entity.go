package user

// Identity is the authenticated caller as asserted by the transport token.
type Identity struct {
	ID      ID
	Role    Role
	Private bool // request arrived through a private (direct) channel
}

func NewIdentity(id ID, role Role, private bool) Identity {
	return Identity{ID: id, Role: role, Private: private}
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// CanAdminister gates pool administration: admins, and only in private channels.
func (i Identity) CanAdminister() bool {
	return i.IsAdmin() && i.Private
}
