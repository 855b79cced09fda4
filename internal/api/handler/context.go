package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/markpoint/marker-api/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// fast-fails before any service call when it is missing: its presence
// proves the middleware ran on this route.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	ident, ok := c.Get("identity").(domain.Identity)
	if !ok || ident.UserID == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return ident, nil
}
