package cart

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ferremix/storefront/internal/handlers"
	"github.com/ferremix/storefront/internal/logging"
	"github.com/ferremix/storefront/internal/mykafka"
)

// View returns the cart summary for the cart page.
func (h *CartHandler) View(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	sum, err := h.summary(c, userID)
	if err != nil {
		return handlers.HTTPError(err)
	}
	return c.JSON(http.StatusOK, sum)
}

// Summary serves the JSON consumed by the header cart panel.
func (h *CartHandler) Summary(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	sum, err := h.summary(c, userID)
	if err != nil {
		return handlers.HTTPError(err)
	}
	return c.JSON(http.StatusOK, sum)
}

// Add puts quantity of a product into the cart, merging with an existing
// line. XMLHttpRequest callers get the refreshed summary as JSON, browser
// form posts get redirected back to the cart.
func (h *CartHandler) Add(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	productID, err := handlers.UintParam(c, "product_id")
	if err != nil {
		return err
	}
	quantity := 1
	if v := c.FormValue("quantity"); v != "" {
		quantity, err = strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid quantity")
		}
	}

	item, err := h.Carts.AddItem(c.Request().Context(), userID, productID, quantity)
	if err != nil {
		return handlers.HTTPError(err)
	}
	h.Cache.Invalidate(c.Request().Context(), userID)

	h.publish(c, userID, map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": productID,
		"quantity":  item.Quantity,
	})

	if isXHR(c) {
		sum, err := h.summary(c, userID)
		if err != nil {
			return handlers.HTTPError(err)
		}
		return c.JSON(http.StatusOK, sum)
	}
	return c.Redirect(http.StatusSeeOther, "/cart/")
}

// Update overwrites a line's quantity; zero or below removes the line.
func (h *CartHandler) Update(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	itemID, err := handlers.UintParam(c, "item_id")
	if err != nil {
		return err
	}
	quantity, err := strconv.Atoi(c.FormValue("quantity"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	if err := h.Carts.UpdateQuantity(c.Request().Context(), userID, itemID, quantity); err != nil {
		return handlers.HTTPError(err)
	}
	h.Cache.Invalidate(c.Request().Context(), userID)

	h.publish(c, userID, map[string]any{
		"type":     "cart_item_updated",
		"userID":   userID,
		"itemID":   itemID,
		"quantity": quantity,
	})

	if isXHR(c) {
		sum, err := h.summary(c, userID)
		if err != nil {
			return handlers.HTTPError(err)
		}
		return c.JSON(http.StatusOK, sum)
	}
	return c.Redirect(http.StatusSeeOther, "/cart/")
}

func (h *CartHandler) Remove(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	itemID, err := handlers.UintParam(c, "item_id")
	if err != nil {
		return err
	}

	if err := h.Carts.RemoveItem(c.Request().Context(), userID, itemID); err != nil {
		return handlers.HTTPError(err)
	}
	h.Cache.Invalidate(c.Request().Context(), userID)

	h.publish(c, userID, map[string]any{
		"type":   "cart_item_removed",
		"userID": userID,
		"itemID": itemID,
	})

	if isXHR(c) {
		sum, err := h.summary(c, userID)
		if err != nil {
			return handlers.HTTPError(err)
		}
		return c.JSON(http.StatusOK, sum)
	}
	return c.Redirect(http.StatusSeeOther, "/cart/")
}

// CheckoutForm returns the data the checkout page renders: the summary the
// order would be built from. An empty cart is rejected up front.
func (h *CartHandler) CheckoutForm(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	sum, err := h.summary(c, userID)
	if err != nil {
		return handlers.HTTPError(err)
	}
	if sum.Count == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "your cart is empty")
	}
	return c.JSON(http.StatusOK, sum)
}

// CheckoutSubmit converts the cart into an order.
func (h *CartHandler) CheckoutSubmit(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Checkout.Checkout(c.Request().Context(), userID, req.shipping(), req.payment())
	if err != nil {
		return handlers.HTTPError(err)
	}
	h.Cache.Invalidate(c.Request().Context(), userID)

	h.publishTopic(c, mykafka.TopicOrderEvents, userID, map[string]any{
		"type":    "order_created",
		"userID":  userID,
		"orderID": order.ID,
		"total":   order.Total,
		"status":  order.Status,
	})
	h.notifyBuyer(c, userID, order)

	logging.FromContext(c.Request().Context()).Info("checkout complete",
		"userID", userID, "orderID", order.ID, "total", order.Total)

	return c.JSON(http.StatusCreated, order)
}
