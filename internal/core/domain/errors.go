package domain

import (
	"errors"
	"strings"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrNoToken      = errors.New("no token provided")
	ErrInvalidToken = errors.New("token invalid")

	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment does not exist")
	ErrForbidden       = errors.New("user not authorized")

	ErrAlreadyLiked    = errors.New("post already liked")
	ErrNotLiked        = errors.New("post has not been liked")
	ErrAlreadyDisliked = errors.New("post already disliked")
	ErrNotDisliked     = errors.New("post has not been disliked")
)

// FieldError describes a single rejected input field.
type FieldError struct {
	Param string
	Msg   string
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Msg)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
