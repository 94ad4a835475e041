package domain

// Principal is the authenticated caller. Lifecycle operations take it
// explicitly instead of reading request state.
type Principal struct {
	StudentID string
	Email     string
	Role      string
	Status    string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (p Principal) IsApproved() bool {
	return p.Status == StatusApproved
}
