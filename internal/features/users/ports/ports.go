package ports

import (
	"context"

	"apotek-store/internal/features/users/domain"
)

// UserRepository is the secondary port for account storage.
type UserRepository interface {
	// Create stores a new user; fails with domain.ErrEmailTaken when the
	// email index already has an entry.
	Create(ctx context.Context, user *domain.User) error
	Get(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
