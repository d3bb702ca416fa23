package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/havenstay/service-rental/internal/platform/auth"
)

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindFirstByRoles(ctx context.Context, roles ...auth.Role) (*User, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, user *User) error
	UpdateRole(ctx context.Context, user *User) error
}
