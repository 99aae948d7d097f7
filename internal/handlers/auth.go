package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ferremix/storefront/internal/hash"
	"github.com/ferremix/storefront/internal/logging"
	"github.com/ferremix/storefront/internal/models"
	"github.com/ferremix/storefront/internal/mykafka"
	"github.com/ferremix/storefront/internal/service/token"
	"github.com/ferremix/storefront/internal/store"
)

type AuthHandler struct {
	Store    store.Store
	Tokens   *token.Service
	Producer mykafka.Publisher
}

type credentials struct {
	Email           string `json:"email"            form:"email"`
	Password        string `json:"password"         form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

func (h *AuthHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicUserEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("kafka publish failed", "error", err)
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req credentials
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
		return echo.NewHTTPError(http.StatusBadRequest, "passwords do not match")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := &models.User{Email: req.Email, PasswordHash: pwHash}
	if err := h.Store.Users().Create(c.Request().Context(), user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return echo.NewHTTPError(http.StatusConflict, "email already registered")
		}
		return HTTPError(err)
	}

	h.publish(c, user.ID, map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req credentials
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Store.Users().ByEmail(c.Request().Context(), strings.TrimSpace(req.Email))
	if err != nil || !hash.CheckPassword(user.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}

	access, accessExp, err := h.Tokens.IssueAccess(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	refresh, refreshExp, err := h.Tokens.IssueRefresh(c.Request().Context(), user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	c.SetCookie(token.CreateCookie(token.AccessCookie, access, "/", accessExp))
	c.SetCookie(token.CreateCookie(token.RefreshCookie, refresh, "/", refreshExp))

	h.publish(c, user.ID, map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message":  "logged in",
		"is_admin": user.IsAdmin,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if ck, err := c.Cookie(token.RefreshCookie); err == nil && ck.Value != "" {
		if err := h.Tokens.Revoke(c.Request().Context(), ck.Value); err != nil {
			logging.FromContext(c.Request().Context()).Warn("refresh revoke failed", "error", err)
		}
	}

	expired := time.Now().Add(-1 * time.Hour)
	c.SetCookie(token.CreateCookie(token.AccessCookie, "", "/", expired))
	c.SetCookie(token.CreateCookie(token.RefreshCookie, "", "/", expired))
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
