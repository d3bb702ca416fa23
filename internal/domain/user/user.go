// Package user holds the account aggregate.
package user

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/havenstay/service-rental/internal/platform/apperror"
	"github.com/havenstay/service-rental/internal/platform/auth"
)

// User is a marketplace account.
type User struct {
	id           uuid.UUID
	name         string
	email        string
	passwordHash string
	role         auth.Role
	createdAt    time.Time
	updatedAt    time.Time
}

var validate = validator.New()

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser registers a guest account.
func NewUser(name, email, passwordHash string) (*User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || passwordHash == "" {
		return nil, apperror.NewValidationError("Name, email and password are required")
	}
	if err := validate.Var(email, "email"); err != nil {
		return nil, apperror.NewValidationError("Invalid email address")
	}

	now := time.Now().UTC()
	return &User{
		id:           uuid.New(),
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		role:         auth.RoleGuest,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(id uuid.UUID, name, email, passwordHash string, role auth.Role, createdAt, updatedAt time.Time) *User {
	return &User{
		id:           id,
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (u *User) ID() uuid.UUID { return u.id }
func (u *User) Name() string { return u.name }
func (u *User) Email() string { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Role() auth.Role { return u.role }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// Principal returns the identity used for authorization decisions.
func (u *User) Principal() auth.Principal {
	return auth.Principal{ID: u.id, Role: u.role}
}

// Promote changes the user's role.
func (u *User) Promote(role auth.Role) error {
	if !role.IsValid() {
		return apperror.NewValidationError("invalid role: " + string(role))
	}
	u.role = role
	u.updatedAt = time.Now().UTC()
	return nil
}
