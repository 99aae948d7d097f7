package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminOnly refuses every request whose caller is not an authenticated admin.
// The check runs before the wrapped handler, so a refused request performs no
// mutation.
func (m *Middleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := m.authenticate(c)
		if err != nil {
			return err
		}
		if !claims.IsAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		setUserContext(c, claims)
		return next(c)
	}
}
