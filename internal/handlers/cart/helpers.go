package cart

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ferremix/storefront/internal/cache"
	"github.com/ferremix/storefront/internal/logging"
	"github.com/ferremix/storefront/internal/middleware/auth"
	"github.com/ferremix/storefront/internal/models"
	"github.com/ferremix/storefront/internal/mykafka"
	"github.com/ferremix/storefront/internal/notifier"
	"github.com/ferremix/storefront/internal/service"
	"github.com/ferremix/storefront/internal/store"
)

type CartHandler struct {
	Carts    *service.CartService
	Checkout *service.CheckoutService
	Store    store.Store
	Cache    cache.SummaryCache
	Producer mykafka.Publisher
	Notifier *notifier.EmailNotifier
}

type checkoutRequest struct {
	FullName         string `json:"full_name"         form:"full_name"`
	Address          string `json:"address"           form:"address"`
	City             string `json:"city"              form:"city"`
	Phone            string `json:"phone"             form:"phone"`
	Notes            string `json:"notes"             form:"notes"`
	PaymentMethod    string `json:"payment_method"    form:"payment_method"`
	PaymentReference string `json:"payment_reference" form:"payment_reference"`
}

func (r checkoutRequest) shipping() service.ShippingInput {
	return service.ShippingInput{
		FullName: r.FullName,
		Address:  r.Address,
		City:     r.City,
		Phone:    r.Phone,
		Notes:    r.Notes,
	}
}

func (r checkoutRequest) payment() service.PaymentInput {
	return service.PaymentInput{Method: r.PaymentMethod, Reference: r.PaymentReference}
}

func requireUser(c echo.Context) (string, error) {
	userID, ok := auth.UserID(c)
	if !ok {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}
	return userID, nil
}

func isXHR(c echo.Context) bool {
	return c.Request().Header.Get("X-Requested-With") == "XMLHttpRequest"
}

// summary reads through the cache.
func (h *CartHandler) summary(c echo.Context, userID string) (*service.Summary, error) {
	ctx := c.Request().Context()
	if sum, ok := h.Cache.Get(ctx, userID); ok {
		return sum, nil
	}
	sum, err := h.Carts.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}
	h.Cache.Set(ctx, userID, sum)
	return sum, nil
}

func (h *CartHandler) publish(c echo.Context, key string, event map[string]any) {
	h.publishTopic(c, mykafka.TopicCartEvents, key, event)
}

func (h *CartHandler) publishTopic(c echo.Context, topic, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("kafka publish failed",
			"topic", topic, "error", err)
	}
}

// notifyBuyer sends the confirmation email without blocking the response.
func (h *CartHandler) notifyBuyer(c echo.Context, userID string, order *models.Order) {
	if h.Notifier == nil {
		return
	}
	l := logging.FromContext(c.Request().Context())
	user, err := h.Store.Users().ByID(c.Request().Context(), userID)
	if err != nil {
		l.Warn("confirmation email skipped", "orderID", order.ID, "error", err)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.Notifier.OrderConfirmation(ctx, user.Email, order); err != nil {
			l.Warn("confirmation email failed", "orderID", order.ID, "error", err)
		}
	}()
}
