// Package testutil wires a full storefront against an in-memory sqlite
// database so handler and service tests run without external services.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ferremix/storefront/internal/cache"
	"github.com/ferremix/storefront/internal/handlers"
	"github.com/ferremix/storefront/internal/handlers/admin"
	"github.com/ferremix/storefront/internal/handlers/cart"
	"github.com/ferremix/storefront/internal/hash"
	authmw "github.com/ferremix/storefront/internal/middleware/auth"
	"github.com/ferremix/storefront/internal/models"
	"github.com/ferremix/storefront/internal/service"
	"github.com/ferremix/storefront/internal/service/token"
	"github.com/ferremix/storefront/internal/store"
	httpserver "github.com/ferremix/storefront/internal/transport/http"
)

// Event is one published message recorded by the sink.
type Event struct {
	Topic string
	Key   string
	Body  map[string]any
}

// EventSink records events instead of talking to kafka.
type EventSink struct {
	mu     sync.Mutex
	Events []Event
}

func (s *EventSink) PublishEvent(_ context.Context, topic, key string, event any) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, Event{Topic: topic, Key: key, Body: body})
	return nil
}

func (s *EventSink) ByTopic(topic string) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for _, e := range s.Events {
		if e.Topic == topic {
			out = append(out, e)
		}
	}
	return out
}

// NewDB opens a fresh in-memory sqlite database with the full schema.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func NewStore(t *testing.T) store.Store {
	t.Helper()
	return store.NewGorm(NewDB(t))
}

type Env struct {
	T      *testing.T
	E      *echo.Echo
	DB     *gorm.DB
	Store  store.Store
	Tokens *token.Service
	Events *EventSink
}

// NewEnv builds the whole HTTP surface on an in-memory store with a stub
// event publisher and no search index, redis or notifier.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	db := NewDB(t)
	st := store.NewGorm(db)
	events := &EventSink{}

	tokens := &token.Service{
		Store:         st,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
	carts := &service.CartService{Store: st}
	checkout := &service.CheckoutService{Store: st}
	orders := &service.OrderService{Store: st}

	e := echo.New()
	httpserver.Register(e, &httpserver.Deps{
		Auth:    &authmw.Middleware{Tokens: tokens},
		AuthH:   &handlers.AuthHandler{Store: st, Tokens: tokens, Producer: events},
		Catalog: &handlers.CatalogHandler{Store: st},
		Cart: &cart.CartHandler{
			Carts:    carts,
			Checkout: checkout,
			Store:    st,
			Cache:    cache.Nop{},
			Producer: events,
		},
		Orders: &handlers.OrderHandler{Svc: orders},
		Search: &handlers.SearchHandler{},
		Admin:  &admin.Handler{Store: st, Producer: events},
	})

	return &Env{T: t, E: e, DB: db, Store: st, Tokens: tokens, Events: events}
}

// DoJSON performs a request with a JSON body through the full router.
func (env *Env) DoJSON(method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	env.T.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

// DoForm performs a form post, optionally marked as an XMLHttpRequest.
func (env *Env) DoForm(method, path string, form url.Values, xhr bool, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	env.T.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	if xhr {
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

// CreateUser seeds a user directly in the store.
func (env *Env) CreateUser(email, password string, isAdmin bool) *models.User {
	env.T.Helper()
	pwHash, err := hash.HashPassword(password)
	require.NoError(env.T, err)
	u := &models.User{Email: email, PasswordHash: pwHash, IsAdmin: isAdmin}
	require.NoError(env.T, env.Store.Users().Create(context.Background(), u))
	return u
}

// Login logs in through the HTTP surface and returns the session cookies.
func (env *Env) Login(email, password string) []*http.Cookie {
	env.T.Helper()
	rec := env.DoJSON(http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(env.T, http.StatusOK, rec.Code, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.NotEmpty(env.T, cookies)
	return cookies
}

// CreateProduct seeds a product.
func (env *Env) CreateProduct(name string, price float64, stock int, opts ...func(*models.Product)) *models.Product {
	env.T.Helper()
	p := &models.Product{Name: name, Price: price, Stock: stock, CreatedAt: time.Now()}
	for _, opt := range opts {
		opt(p)
	}
	require.NoError(env.T, env.Store.Products().Create(context.Background(), p))
	return p
}

// CreateCategory seeds a category.
func (env *Env) CreateCategory(name, slug string) *models.Category {
	env.T.Helper()
	cat := &models.Category{Name: name, Slug: slug}
	require.NoError(env.T, env.Store.Categories().Create(context.Background(), cat))
	return cat
}
