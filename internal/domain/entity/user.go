package entity

// UserIdentity is the resolved identity behind the current bearer token,
// as returned by the backend profile endpoint. It is recomputed whenever
// the token changes and cached with a short staleness window.
type UserIdentity struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	FirstName      string `json:"firstName,omitempty"`
	LastName       string `json:"lastName,omitempty"`
	Role           Role   `json:"role"`
	HasAccess      bool   `json:"hasAccess"`
	OrganizationID string `json:"organizationId,omitempty"`
	LocationID     string `json:"locationId,omitempty"`
}

// Unassigned reports whether the user must be routed through the
// access-request flow before any role-scoped view is reachable.
func (u UserIdentity) Unassigned() bool {
	return !u.HasAccess || !u.Role.IsAssigned()
}

// AuthResult is the backend's answer to a successful login, registration
// verification or OAuth callback. The token is the sole credential.
type AuthResult struct {
	Token      string        `json:"token"`
	Role       Role          `json:"role,omitempty"`
	RedirectTo string        `json:"redirectTo,omitempty"`
	Message    string        `json:"message,omitempty"`
	User       *UserIdentity `json:"user,omitempty"`
}
