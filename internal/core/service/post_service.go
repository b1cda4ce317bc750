package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/devconnector/connector-api/internal/api/metrics"
	"github.com/devconnector/connector-api/internal/core/domain"
	"github.com/devconnector/connector-api/internal/core/ports"
	"github.com/devconnector/connector-api/internal/pkg/validation"
)

const (
	kindLike    = "like"
	kindDislike = "dislike"
)

type PostService struct {
	posts ports.PostRepository
	users ports.UserRepository
	// serial orders read-modify-write cycles on the same post. May be nil.
	serial ports.Serializer
	// exclusive drops a user's opposite reaction when a new one is added.
	exclusive bool
	logger    zerolog.Logger
}

func NewPostService(
	posts ports.PostRepository,
	users ports.UserRepository,
	serial ports.Serializer,
	exclusiveReactions bool,
	logger zerolog.Logger,
) *PostService {
	return &PostService{posts: posts, users: users, serial: serial, exclusive: exclusiveReactions, logger: logger}
}

// mutate loads the post, applies change and persists it, holding the post's
// slot in the serializer for the whole cycle.
func (s *PostService) mutate(ctx context.Context, postID string, change func(*domain.Post) error) (*domain.Post, error) {
	var post *domain.Post
	run := func(ctx context.Context) error {
		p, err := s.posts.FindByID(ctx, postID)
		if err != nil {
			return err
		}
		if err := change(p); err != nil {
			return err
		}
		if err := s.posts.Save(ctx, p); err != nil {
			return &saveError{err: err}
		}
		post = p
		return nil
	}

	var err error
	if s.serial == nil {
		err = run(ctx)
	} else {
		err = s.serial.Do(ctx, postID, run)
	}
	return post, err
}

// saveError marks a failure that happened while persisting, after the
// change itself was accepted.
type saveError struct{ err error }

func (e *saveError) Error() string { return e.err.Error() }
func (e *saveError) Unwrap() error { return e.err }

// Create publishes a post with the author's current name and avatar.
func (s *PostService) Create(ctx context.Context, actor domain.Identity, in ports.TextInput) (*domain.Post, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	post := domain.NewPost(actor.UserID, in.Text, user.Snapshot(), time.Now().UTC())
	if err := s.posts.Create(ctx, post); err != nil {
		s.logger.Error().Err(err).Msg("failed to create post")
		return nil, err
	}

	metrics.PostsTotal.WithLabelValues("created").Inc()
	s.logger.Info().Str("post_id", post.ID).Str("user_id", actor.UserID).Msg("post created")
	return post, nil
}

// List returns every post, newest first.
func (s *PostService) List(ctx context.Context) ([]*domain.Post, error) {
	return s.posts.List(ctx)
}

func (s *PostService) Get(ctx context.Context, postID string) (*domain.Post, error) {
	return s.posts.FindByID(ctx, postID)
}

// Delete removes a post. Only its owner may do so.
func (s *PostService) Delete(ctx context.Context, actor domain.Identity, postID string) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if !post.OwnedBy(actor.UserID) {
		return domain.ErrForbidden
	}

	if err := s.posts.Delete(ctx, post.ID); err != nil {
		return err
	}

	metrics.PostsTotal.WithLabelValues("deleted").Inc()
	s.logger.Info().Str("post_id", post.ID).Str("user_id", actor.UserID).Msg("post deleted")
	return nil
}

func (s *PostService) Like(ctx context.Context, actor domain.Identity, postID string) ([]domain.Reaction, error) {
	post, err := s.react(ctx, actor, postID, kindLike, "add", func(p *domain.Post) error {
		if s.exclusive && p.HasDisliked(actor.UserID) {
			_ = p.Undislike(actor.UserID)
		}
		return p.Like(actor.UserID)
	})
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

func (s *PostService) Unlike(ctx context.Context, actor domain.Identity, postID string) ([]domain.Reaction, error) {
	post, err := s.react(ctx, actor, postID, kindLike, "remove", func(p *domain.Post) error {
		return p.Unlike(actor.UserID)
	})
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

func (s *PostService) Dislike(ctx context.Context, actor domain.Identity, postID string) ([]domain.Reaction, error) {
	post, err := s.react(ctx, actor, postID, kindDislike, "add", func(p *domain.Post) error {
		if s.exclusive && p.HasLiked(actor.UserID) {
			_ = p.Unlike(actor.UserID)
		}
		return p.Dislike(actor.UserID)
	})
	if err != nil {
		return nil, err
	}
	return post.Dislikes, nil
}

func (s *PostService) Undislike(ctx context.Context, actor domain.Identity, postID string) ([]domain.Reaction, error) {
	post, err := s.react(ctx, actor, postID, kindDislike, "remove", func(p *domain.Post) error {
		return p.Undislike(actor.UserID)
	})
	if err != nil {
		return nil, err
	}
	return post.Dislikes, nil
}

// react runs one read-modify-write cycle. Nothing is written when apply
// rejects the change.
func (s *PostService) react(
	ctx context.Context,
	actor domain.Identity,
	postID, kind, action string,
	apply func(*domain.Post) error,
) (*domain.Post, error) {
	post, err := s.mutate(ctx, postID, apply)
	if err != nil {
		var se *saveError
		switch {
		case errors.As(err, &se):
			s.logger.Error().Err(se.err).Str("post_id", postID).Str("kind", kind).Msg("failed to save reaction")
			return nil, se.err
		case isConflict(err):
			metrics.ReactionConflictsTotal.WithLabelValues(kind, action).Inc()
		}
		return nil, err
	}

	metrics.ReactionsTotal.WithLabelValues(kind, action).Inc()
	s.logger.Debug().
		Str("post_id", postID).
		Str("user_id", actor.UserID).
		Str("kind", kind).
		Str("action", action).
		Msg("reaction applied")
	return post, nil
}

func isConflict(err error) bool {
	return errors.Is(err, domain.ErrAlreadyLiked) ||
		errors.Is(err, domain.ErrNotLiked) ||
		errors.Is(err, domain.ErrAlreadyDisliked) ||
		errors.Is(err, domain.ErrNotDisliked)
}

// Comment prepends a comment with the author's current name and avatar.
func (s *PostService) Comment(ctx context.Context, actor domain.Identity, postID string, in ports.TextInput) ([]domain.Comment, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	post, err := s.mutate(ctx, postID, func(p *domain.Post) error {
		p.AddComment(actor.UserID, in.Text, user.Snapshot(), time.Now().UTC())
		return nil
	})
	if err != nil {
		return nil, s.unwrapSave(err, postID, "failed to save comment")
	}

	metrics.CommentsTotal.WithLabelValues("added").Inc()
	return post.Comments, nil
}

// DeleteComment removes the comment with commentID. Only its author may do so.
func (s *PostService) DeleteComment(ctx context.Context, actor domain.Identity, postID, commentID string) ([]domain.Comment, error) {
	post, err := s.mutate(ctx, postID, func(p *domain.Post) error {
		return p.RemoveComment(commentID, actor.UserID)
	})
	if err != nil {
		return nil, s.unwrapSave(err, postID, "failed to save comment removal")
	}

	metrics.CommentsTotal.WithLabelValues("deleted").Inc()
	return post.Comments, nil
}

func (s *PostService) unwrapSave(err error, postID, msg string) error {
	var se *saveError
	if errors.As(err, &se) {
		s.logger.Error().Err(se.err).Str("post_id", postID).Msg(msg)
		return se.err
	}
	return err
}
