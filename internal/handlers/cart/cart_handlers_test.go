package cart_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/ferremix/storefront/internal/handlers/cart"
	"github.com/ferremix/storefront/internal/models"
	"github.com/ferremix/storefront/internal/mykafka"
	"github.com/ferremix/storefront/internal/service"
	"github.com/ferremix/storefront/internal/testutil"
)

func loggedIn(t *testing.T, env *testutil.Env) []*http.Cookie {
	t.Helper()
	env.CreateUser("shopper@example.com", "pw123456", false)
	return env.Login("shopper@example.com", "pw123456")
}

func TestCartRequiresLogin(t *testing.T) {
	env := testutil.NewEnv(t)

	rec := env.DoJSON(http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.DoForm(http.MethodPost, "/cart/add/1", url.Values{}, true)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAddXHRReturnsSummary(t *testing.T) {
	env := testutil.NewEnv(t)
	cookies := loggedIn(t, env)
	p := env.CreateProduct("Claw Hammer", 12.50, 10)

	rec := env.DoForm(http.MethodPost, fmt.Sprintf("/cart/add/%d", p.ID),
		url.Values{"quantity": {"2"}}, true, cookies...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var sum service.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	require.Equal(t, 2, sum.Count)
	require.InDelta(t, 25.00, sum.Subtotal, 1e-9)
	require.Len(t, sum.Items, 1)
	require.Equal(t, "Claw Hammer", sum.Items[0].Name)

	require.Len(t, env.Events.ByTopic(mykafka.TopicCartEvents), 1)
}

func TestAddBrowserPostRedirects(t *testing.T) {
	env := testutil.NewEnv(t)
	cookies := loggedIn(t, env)
	p := env.CreateProduct("Claw Hammer", 12.50, 10)

	rec := env.DoForm(http.MethodPost, fmt.Sprintf("/cart/add/%d", p.ID),
		url.Values{"quantity": {"1"}}, false, cookies...)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/cart/", rec.Header().Get("Location"))
}

func TestAddInsufficientStock(t *testing.T) {
	env := testutil.NewEnv(t)
	cookies := loggedIn(t, env)
	p := env.CreateProduct("Rare Part", 99.00, 1)

	rec := env.DoForm(http.MethodPost, fmt.Sprintf("/cart/add/%d", p.ID),
		url.Values{"quantity": {"5"}}, true, cookies...)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "insufficient stock")
}

func TestUpdateAndRemoveLines(t *testing.T) {
	env := testutil.NewEnv(t)
	cookies := loggedIn(t, env)
	p := env.CreateProduct("Claw Hammer", 12.50, 10)

	rec := env.DoForm(http.MethodPost, fmt.Sprintf("/cart/add/%d", p.ID),
		url.Values{"quantity": {"2"}}, true, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	var sum service.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	itemID := sum.Items[0].ItemID

	rec = env.DoForm(http.MethodPost, fmt.Sprintf("/cart/update/%d", itemID),
		url.Values{"quantity": {"5"}}, true, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	sum = service.Summary{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	require.Equal(t, 5, sum.Count)

	rec = env.DoForm(http.MethodPost, fmt.Sprintf("/cart/remove/%d", itemID),
		url.Values{}, true, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	sum = service.Summary{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	require.Equal(t, 0, sum.Count)
	require.Empty(t, sum.Items)
}

func TestSummaryEndpointShape(t *testing.T) {
	env := testutil.NewEnv(t)
	cookies := loggedIn(t, env)
	a := env.CreateProduct("Product A", 10.00, 50)
	b := env.CreateProduct("Product B", 5.00, 50)

	env.DoForm(http.MethodPost, fmt.Sprintf("/cart/add/%d", a.ID),
		url.Values{"quantity": {"2"}}, true, cookies...)
	env.DoForm(http.MethodPost, fmt.Sprintf("/cart/add/%d", b.ID),
		url.Values{"quantity": {"1"}}, true, cookies...)

	rec := env.DoJSON(http.MethodGet, "/cart/summary", nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.EqualValues(t, 3, body["count"])
	require.EqualValues(t, 25.00, body["subtotal"])
	require.Len(t, body["items"], 2)
}

func TestCheckoutFormEmptyCart(t *testing.T) {
	env := testutil.NewEnv(t)
	cookies := loggedIn(t, env)

	rec := env.DoJSON(http.MethodGet, "/cart/checkout", nil, cookies...)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "your cart is empty")
}

func TestCheckoutEndToEnd(t *testing.T) {
	env := testutil.NewEnv(t)
	cookies := loggedIn(t, env)
	a := env.CreateProduct("Product A", 10.00, 50)
	b := env.CreateProduct("Product B", 5.00, 50)

	env.DoForm(http.MethodPost, fmt.Sprintf("/cart/add/%d", a.ID),
		url.Values{"quantity": {"2"}}, true, cookies...)
	env.DoForm(http.MethodPost, fmt.Sprintf("/cart/add/%d", b.ID),
		url.Values{"quantity": {"1"}}, true, cookies...)

	rec := env.DoJSON(http.MethodGet, "/cart/checkout", nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.DoForm(http.MethodPost, "/cart/checkout", url.Values{
		"full_name":      {"Ada Lovelace"},
		"address":        {"12 Analytical St"},
		"city":           {"London"},
		"phone":          {"555-0100"},
		"payment_method": {"card"},
	}, false, cookies...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	require.InDelta(t, 25.00, order.Total, 1e-9)
	require.Equal(t, "pending", order.Status)
	require.Len(t, order.Items, 2)

	events := env.Events.ByTopic(mykafka.TopicOrderEvents)
	require.Len(t, events, 1)
	require.Equal(t, "order_created", events[0].Body["type"])

	// The cart is empty again.
	rec = env.DoJSON(http.MethodGet, "/cart/summary", nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	var sum service.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	require.Equal(t, 0, sum.Count)
}

// recordingCache counts invalidations; reads always miss.
type recordingCache struct {
	invalidated int
}

func (c *recordingCache) Get(context.Context, string) (*service.Summary, bool) { return nil, false }
func (c *recordingCache) Set(context.Context, string, *service.Summary)        {}
func (c *recordingCache) Invalidate(context.Context, string)                   { c.invalidated++ }

func TestCartMutationsInvalidateCache(t *testing.T) {
	st := testutil.NewStore(t)
	ctx := context.Background()

	p := &models.Product{Name: "Claw Hammer", Price: 12.50, Stock: 10}
	require.NoError(t, st.Products().Create(ctx, p))

	rc := &recordingCache{}
	h := &cart.CartHandler{
		Carts:    &service.CartService{Store: st},
		Checkout: &service.CheckoutService{Store: st},
		Store:    st,
		Cache:    rc,
		Producer: &testutil.EventSink{},
	}

	e := echo.New()
	do := func(path string, form url.Values, handler echo.HandlerFunc, params ...string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("userID", "user-1")
		for i := 0; i+1 < len(params); i += 2 {
			c.SetParamNames(params[i])
			c.SetParamValues(params[i+1])
		}
		require.NoError(t, handler(c))
		return rec
	}

	rec := do("/cart/add/1", url.Values{"quantity": {"2"}}, h.Add, "product_id", fmt.Sprint(p.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, rc.invalidated)

	var sum service.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	itemID := fmt.Sprint(sum.Items[0].ItemID)

	do("/cart/update/"+itemID, url.Values{"quantity": {"1"}}, h.Update, "item_id", itemID)
	require.Equal(t, 2, rc.invalidated)

	do("/cart/checkout", url.Values{
		"full_name":      {"Ada"},
		"address":        {"12 St"},
		"city":           {"London"},
		"phone":          {"555"},
		"payment_method": {"card"},
	}, h.CheckoutSubmit)
	require.Equal(t, 3, rc.invalidated)
}

func TestCheckoutMissingFields(t *testing.T) {
	env := testutil.NewEnv(t)
	cookies := loggedIn(t, env)
	p := env.CreateProduct("Product A", 10.00, 50)

	env.DoForm(http.MethodPost, fmt.Sprintf("/cart/add/%d", p.ID),
		url.Values{"quantity": {"1"}}, true, cookies...)

	rec := env.DoForm(http.MethodPost, "/cart/checkout", url.Values{
		"full_name": {"Ada Lovelace"},
	}, false, cookies...)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "missing required fields")
}
