package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ulbi/ukm-portal/internal/core/domain"
)

// RBAC lets the request through only when the signed-in identity holds perm.
// It must run after Client.
func RBAC(perm domain.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ws, ok := WorkspaceFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusInternalServerError, "client workspace missing")
			}
			ident, ok := ws.Session.Identity()
			if !ok {
				return domain.ErrUnauthenticated
			}
			if !ident.Role.Allows(perm) {
				return fmt.Errorf("%s: %w", perm, domain.ErrForbidden)
			}
			return next(c)
		}
	}
}
