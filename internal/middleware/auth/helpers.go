package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/ferremix/storefront/internal/service/token"
)

type Middleware struct {
	Tokens *token.Service
}

// authenticate resolves the caller from the access cookie, falling back to a
// refresh rotation when the access token is missing or expired. New cookies
// are set on rotation.
func (m *Middleware) authenticate(c echo.Context) (*token.Claims, error) {
	if ck, err := c.Cookie(token.AccessCookie); err == nil && ck.Value != "" {
		claims, err := m.Tokens.ParseAccess(ck.Value)
		if err == nil {
			return claims, nil
		}
		if !jwtExpired(err) {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
	}

	rf, err := c.Cookie(token.RefreshCookie)
	if err != nil || rf.Value == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}
	access, refresh, claims, err := m.Tokens.Rotate(c.Request().Context(), rf.Value)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	c.SetCookie(token.CreateCookie(token.AccessCookie, access, "/", time.Now().Add(token.AccessTTL)))
	c.SetCookie(token.CreateCookie(token.RefreshCookie, refresh, "/", time.Now().Add(token.RefreshTTL)))
	return claims, nil
}

func jwtExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}

func setUserContext(c echo.Context, claims *token.Claims) {
	c.Set("userID", claims.UserID)
	c.Set("isAdmin", claims.IsAdmin)
}

// UserID returns the authenticated user id set by the middleware.
func UserID(c echo.Context) (string, bool) {
	id, ok := c.Get("userID").(string)
	return id, ok && id != ""
}

func IsAdmin(c echo.Context) bool {
	admin, _ := c.Get("isAdmin").(bool)
	return admin
}
