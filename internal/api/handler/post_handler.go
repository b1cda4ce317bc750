package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devconnector/connector-api/internal/core/domain"
	"github.com/devconnector/connector-api/internal/core/ports"
)

// PostHandler handles HTTP requests for the feed.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

type textRequest struct {
	Text string `json:"text"`
}

// Create handles POST /posts.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        body  body      textRequest  true  "Post text"
// @Success      200   {object}  domain.Post
// @Failure      420   {object}  map[string]any
// @Failure      520   {string}  string
// @Router       /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req textRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	post, err := h.service.Create(c.Request().Context(), id, ports.TextInput{Text: req.Text})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// List handles GET /posts.
//
// @Summary      List posts, newest first
// @Tags         posts
// @Produce      json
// @Security     TokenAuth
// @Success      200  {array}   domain.Post
// @Failure      520  {string}  string
// @Router       /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	posts, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// Get handles GET /posts/:id.
//
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Security     TokenAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  domain.Post
// @Failure      420  {object}  messageResponse
// @Failure      520  {string}  string
// @Router       /posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	post, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Delete handles DELETE /posts/:id.
//
// @Summary      Delete a post
// @Tags         posts
// @Produce      json
// @Security     TokenAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  messageResponse
// @Failure      420  {object}  messageResponse
// @Failure      520  {string}  string
// @Router       /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Msg: "Post removed"})
}

type reactionFunc func(ctx context.Context, actor domain.Identity, postID string) ([]domain.Reaction, error)

func (h *PostHandler) reaction(c echo.Context, fn reactionFunc) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	reactions, err := fn(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reactions)
}

// Like handles PUT /posts/like/:id.
//
// @Summary      Like a post
// @Tags         posts
// @Produce      json
// @Security     TokenAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {array}   domain.Reaction
// @Failure      420  {object}  messageResponse
// @Failure      520  {string}  string
// @Router       /posts/like/{id} [put]
func (h *PostHandler) Like(c echo.Context) error {
	return h.reaction(c, h.service.Like)
}

// Unlike handles PUT /posts/unlike/:id.
//
// @Summary      Remove a like
// @Tags         posts
// @Produce      json
// @Security     TokenAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {array}   domain.Reaction
// @Failure      420  {object}  messageResponse
// @Failure      520  {string}  string
// @Router       /posts/unlike/{id} [put]
func (h *PostHandler) Unlike(c echo.Context) error {
	return h.reaction(c, h.service.Unlike)
}

// Dislike handles PUT /posts/dislike/:id.
//
// @Summary      Dislike a post
// @Tags         posts
// @Produce      json
// @Security     TokenAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {array}   domain.Reaction
// @Failure      420  {object}  messageResponse
// @Failure      520  {string}  string
// @Router       /posts/dislike/{id} [put]
func (h *PostHandler) Dislike(c echo.Context) error {
	return h.reaction(c, h.service.Dislike)
}

// Undislike handles PUT /posts/undislike/:id.
//
// @Summary      Remove a dislike
// @Tags         posts
// @Produce      json
// @Security     TokenAuth
// @Param        id   path      string  true  "Post id"
// @Success      200  {array}   domain.Reaction
// @Failure      420  {object}  messageResponse
// @Failure      520  {string}  string
// @Router       /posts/undislike/{id} [put]
func (h *PostHandler) Undislike(c echo.Context) error {
	return h.reaction(c, h.service.Undislike)
}

// Comment handles POST /posts/comment/:id.
//
// @Summary      Comment on a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        id    path      string       true  "Post id"
// @Param        body  body      textRequest  true  "Comment text"
// @Success      200   {array}   domain.Comment
// @Failure      420   {object}  map[string]any
// @Failure      520   {string}  string
// @Router       /posts/comment/{id} [post]
func (h *PostHandler) Comment(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req textRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	comments, err := h.service.Comment(c.Request().Context(), id, c.Param("id"), ports.TextInput{Text: req.Text})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}

// DeleteComment handles DELETE /posts/comment/:id/:comment_id.
//
// @Summary      Delete a comment
// @Tags         posts
// @Produce      json
// @Security     TokenAuth
// @Param        id          path      string  true  "Post id"
// @Param        comment_id  path      string  true  "Comment id"
// @Success      200         {array}   domain.Comment
// @Failure      420         {object}  messageResponse
// @Failure      520         {string}  string
// @Router       /posts/comment/{id}/{comment_id} [delete]
func (h *PostHandler) DeleteComment(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	comments, err := h.service.DeleteComment(c.Request().Context(), id, c.Param("id"), c.Param("comment_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}
