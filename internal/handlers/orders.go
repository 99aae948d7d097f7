package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ferremix/storefront/internal/middleware/auth"
	"github.com/ferremix/storefront/internal/service"
)

type OrderHandler struct {
	Svc *service.OrderService
}

func (h *OrderHandler) List(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}
	orders, err := h.Svc.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return HTTPError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

// Detail is visible to the order's owner and to admins only.
func (h *OrderHandler) Detail(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}
	id, err := UintParam(c, "id")
	if err != nil {
		return err
	}
	order, err := h.Svc.Get(c.Request().Context(), userID, auth.IsAdmin(c), id)
	if err != nil {
		return HTTPError(err)
	}
	return c.JSON(http.StatusOK, order)
}
