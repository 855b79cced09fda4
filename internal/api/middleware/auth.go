package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/markpoint/marker-api/internal/core/ports"
)

// SessionCookie is the name of the cookie carrying the opaque session id.
const SessionCookie = "marker_session"

// Auth resolves the session cookie to an authenticated identity and injects
// it into the request context. The session lookup and the embedded token
// verification both happen inside AuthService.Authenticate; every failure
// mode collapses to the same generic 401.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			ident, err := auth.Authenticate(c.Request().Context(), cookie.Value)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			c.Set("identity", *ident)
			return next(c)
		}
	}
}
