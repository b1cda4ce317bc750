package ports

import (
	"context"

	"github.com/devconnector/connector-api/internal/core/domain"
)

// TextInput is the body of a new post or comment.
type TextInput struct {
	Text string `json:"text" validate:"required" msg:"Text is required"`
}

// PostService defines the feed use cases. Every mutating call takes the
// acting identity explicitly.
type PostService interface {
	Create(ctx context.Context, actor domain.Identity, in TextInput) (*domain.Post, error)
	List(ctx context.Context) ([]*domain.Post, error)
	Get(ctx context.Context, postID string) (*domain.Post, error)
	Delete(ctx context.Context, actor domain.Identity, postID string) error

	Like(ctx context.Context, actor domain.Identity, postID string) ([]domain.Reaction, error)
	Unlike(ctx context.Context, actor domain.Identity, postID string) ([]domain.Reaction, error)
	Dislike(ctx context.Context, actor domain.Identity, postID string) ([]domain.Reaction, error)
	Undislike(ctx context.Context, actor domain.Identity, postID string) ([]domain.Reaction, error)

	Comment(ctx context.Context, actor domain.Identity, postID string, in TextInput) ([]domain.Comment, error)
	DeleteComment(ctx context.Context, actor domain.Identity, postID, commentID string) ([]domain.Comment, error)
}
