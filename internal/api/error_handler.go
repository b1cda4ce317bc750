package api

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/devconnector/connector-api/internal/core/domain"
)

// Non-standard status codes kept for client compatibility.
const (
	StatusRejected    = 420
	StatusServerError = 520
)

// messageResponse is the envelope for single business-rule rejections.
type messageResponse struct {
	Msg string `json:"msg"`
}

type errorItem struct {
	Msg      string `json:"msg"`
	Param    string `json:"param,omitempty"`
	Location string `json:"location,omitempty"`
}

// errorsResponse is the envelope for validation and credential failures.
type errorsResponse struct {
	Errors []errorItem `json:"errors"`
}

// rejection maps a domain error to its caller-facing message. listed errors
// use the {"errors":[...]} envelope.
type rejection struct {
	err    error
	msg    string
	listed bool
}

var rejections = []rejection{
	{err: domain.ErrInvalidCredentials, msg: "Invalid Credentials", listed: true},
	{err: domain.ErrUserExists, msg: "User already exists", listed: true},
	{err: domain.ErrNoToken, msg: "No token, authorization denied"},
	{err: domain.ErrInvalidToken, msg: "Token is not valid"},
	{err: domain.ErrUserNotFound, msg: "User not found"},
	{err: domain.ErrPostNotFound, msg: "Post not found"},
	{err: domain.ErrCommentNotFound, msg: "Comment does not exist"},
	{err: domain.ErrForbidden, msg: "User not authorized"},
	{err: domain.ErrAlreadyLiked, msg: "Post already liked"},
	{err: domain.ErrNotLiked, msg: "Post has not been liked"},
	{err: domain.ErrAlreadyDisliked, msg: "Post already disliked"},
	{err: domain.ErrNotDisliked, msg: "Post has not been disliked"},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps validation and business-rule errors to 420 with the message envelopes.
//   - Logs unexpected errors and answers 520 "Server Error" without details.
//   - Passes Echo's own HTTP errors (bind failures, unknown routes) through.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if body == nil {
			_ = c.String(code, "Server Error")
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, any) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, messageResponse{Msg: fmt.Sprintf("%v", he.Message)}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		items := make([]errorItem, 0, len(ve.Fields))
		for _, f := range ve.Fields {
			items = append(items, errorItem{Msg: f.Msg, Param: f.Param, Location: "body"})
		}
		return StatusRejected, errorsResponse{Errors: items}
	}

	for _, r := range rejections {
		if !errors.Is(err, r.err) {
			continue
		}
		if r.listed {
			return StatusRejected, errorsResponse{Errors: []errorItem{{Msg: r.msg}}}
		}
		return StatusRejected, messageResponse{Msg: r.msg}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return StatusServerError, nil
}
