package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devconnector/connector-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type messageResponse struct {
	Msg string `json:"msg"`
}

// Me returns the authenticated user without the password hash.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     TokenAuth
// @Success      200  {object}  domain.User
// @Failure      420  {object}  messageResponse
// @Failure      520  {string}  string
// @Router       /auth [get]
func (h *AuthHandler) Me(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.authService.CurrentUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Login authenticates a user and returns a token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      420   {object}  map[string]any
// @Failure      520   {string}  string
// @Router       /auth [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	token, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}

// Register creates a new user account and returns a token.
//
// @Summary      Register
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  tokenResponse
// @Failure      420   {object}  map[string]any
// @Failure      520   {string}  string
// @Router       /users [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	token, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}

// Logout revokes the presented token.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     TokenAuth
// @Success      200  {object}  messageResponse
// @Failure      420  {object}  messageResponse
// @Failure      520  {string}  string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Msg: "Logged out"})
}
