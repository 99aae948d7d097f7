// Package admin is the back-office CRUD surface. Every route is registered
// behind the admin-only middleware, so handlers assume an authenticated admin.
package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ferremix/storefront/internal/es"
	"github.com/ferremix/storefront/internal/logging"
	"github.com/ferremix/storefront/internal/mykafka"
	"github.com/ferremix/storefront/internal/store"
)

type Handler struct {
	Store    store.Store
	Producer mykafka.Publisher
	Index    *es.ProductIndexer
}

func (h *Handler) publish(c echo.Context, topic, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("kafka publish failed",
			"topic", topic, "error", err)
	}
}

// Dashboard returns the entity counts the back-office landing page shows.
func (h *Handler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.Store.Products().Count(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	users, err := h.Store.Users().Count(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	orders, err := h.Store.Orders().Count(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	categories, err := h.Store.Categories().Count(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"products_count":   products,
		"users_count":      users,
		"orders_count":     orders,
		"categories_count": categories,
	})
}
