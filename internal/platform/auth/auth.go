// Package auth issues and verifies session tokens, hashes passwords, and
// decides which principals may run which operations.
package auth

import "github.com/google/uuid"

// Role is a user's marketplace role.
type Role string

const (
	RoleGuest Role = "guest"
	RoleHost  Role = "host"
	RoleAdmin Role = "admin"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	switch r {
	case RoleGuest, RoleHost, RoleAdmin:
		return true
	}
	return false
}

// Principal is the authenticated identity resolved from a request.
type Principal struct {
	ID   uuid.UUID
	Role Role
}

// IsZero reports whether p carries no identity.
func (p Principal) IsZero() bool { return p.ID == uuid.Nil }
