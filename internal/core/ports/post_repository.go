package ports

import (
	"context"

	"github.com/devconnector/connector-api/internal/core/domain"
)

// PostRepository defines persistence for posts and their embedded likes,
// dislikes and comments.
//
// Save replaces the whole document; there is no version check, so two
// concurrent read-modify-write cycles on one post can lose an update.
type PostRepository interface {
	// Create persists post and sets its ID.
	Create(ctx context.Context, post *domain.Post) error
	// List returns every post, newest first.
	List(ctx context.Context) ([]*domain.Post, error)
	// FindByID returns domain.ErrPostNotFound for unknown or malformed ids.
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	// Save writes post back, assigning ids to new reactions and comments.
	Save(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id string) error
}
