package ports

import (
	"context"

	"github.com/devconnector/connector-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	// Create persists user and sets its ID. Returns domain.ErrUserExists on
	// an email collision.
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
