package identity

import (
	"context"

	"github.com/rently/backend/internal/domain/shared"
)

// UserRepository defines the persistence interface for users
type UserRepository interface {
	shared.Repository[User]
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	CountByRole(ctx context.Context, role Role) (int64, error)
}
