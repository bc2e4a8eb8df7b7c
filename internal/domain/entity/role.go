// Package entity contains the typed representations of backend-owned
// resources as they cross the wire: identities, cohorts, courses,
// participants, attendance and access requests.
package entity

import "slices"

// Role represents the dashboard role assigned to a user by the backend.
type Role string

const (
	// RoleFacilitator runs cohorts and records attendance.
	RoleFacilitator Role = "FACILITATOR"
	// RoleMEOfficer manages cohorts, courses, participants and facilitators.
	RoleMEOfficer Role = "ME_OFFICER"
	// RoleDonor has read access to partner and impact analytics.
	RoleDonor Role = "DONOR"
	// RoleAdmin has full administrative access.
	RoleAdmin Role = "ADMIN"
	// RoleUnassigned marks an account that has not been granted a role yet.
	// Such accounts must go through the access-request flow first.
	RoleUnassigned Role = "UNASSIGNED"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleFacilitator, RoleMEOfficer, RoleDonor, RoleAdmin, RoleUnassigned:
		return true
	default:
		return false
	}
}

// IsAssigned reports whether the role grants access to any role-scoped view.
func (r Role) IsAssigned() bool {
	return r.IsValid() && r != RoleUnassigned
}

// Roles is a slice of Role for convenience.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}
