package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/devconnector/connector-api/internal/api/middleware"
	"github.com/devconnector/connector-api/internal/core/domain"
)

// ctxIdentity returns the identity stored by the Auth middleware. Its absence
// means the route was mounted without the gate, which is treated as an
// unauthenticated request.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := c.Get(middleware.IdentityKey).(domain.Identity)
	if !ok || id.UserID == "" {
		return domain.Identity{}, domain.ErrNoToken
	}
	return id, nil
}
