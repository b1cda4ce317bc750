package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/devconnector/connector-api/internal/core/domain"
)

// IdentityKey is the echo.Context key holding the resolved domain.Identity.
const IdentityKey = "identity"

// DefaultHeader carries the token when no other header is configured.
const DefaultHeader = "x-auth-token"

// Authenticator resolves a raw token to the caller's identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Identity, error)
}

// Auth reads the token from header, resolves it and stores the identity
// under IdentityKey. Rejections are returned for the error handler to render.
func Auth(authn Authenticator, header string) echo.MiddlewareFunc {
	if header == "" {
		header = DefaultHeader
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := authn.Authenticate(c.Request().Context(), c.Request().Header.Get(header))
			if err != nil {
				return err
			}

			c.Set(IdentityKey, id)
			return next(c)
		}
	}
}
