package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ferremix/storefront/internal/logging"
)

// RequestLogger puts a request-scoped logger into the request context so the
// handlers can pull it with logging.FromContext.
func RequestLogger(l *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			rl := l.With(
				"method", req.Method,
				"path", req.URL.Path,
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), rl)))
			return next(c)
		}
	}
}

// Common wires the standard middleware chain.
func Common(e *echo.Echo, l *slog.Logger) {
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), RequestLogger(l))
}
