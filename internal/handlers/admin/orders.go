package admin

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ferremix/storefront/internal/handlers"
	"github.com/ferremix/storefront/internal/mykafka"
)

func (h *Handler) ListOrders(c echo.Context) error {
	orders, err := h.Store.Orders().All(c.Request().Context())
	if err != nil {
		return handlers.HTTPError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c echo.Context) error {
	id, err := handlers.UintParam(c, "id")
	if err != nil {
		return err
	}
	order, err := h.Store.Orders().ByID(c.Request().Context(), id)
	if err != nil {
		return handlers.HTTPError(err)
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus accepts any non-empty status string; there is no
// enforced state machine.
func (h *Handler) UpdateOrderStatus(c echo.Context) error {
	id, err := handlers.UintParam(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		Status string `json:"status" form:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	req.Status = strings.TrimSpace(req.Status)
	if req.Status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "status is required")
	}

	if err := h.Store.Orders().UpdateStatus(c.Request().Context(), id, req.Status); err != nil {
		return handlers.HTTPError(err)
	}

	h.publish(c, mykafka.TopicOrderEvents, c.Param("id"), map[string]any{
		"type":    "order_status_changed",
		"orderID": id,
		"status":  req.Status,
	})

	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": req.Status})
}
