package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ferremix/storefront/internal/handlers"
	"github.com/ferremix/storefront/internal/hash"
	"github.com/ferremix/storefront/internal/middleware/auth"
	"github.com/ferremix/storefront/internal/models"
)

type userRequest struct {
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"`
	IsAdmin  bool   `json:"is_admin" form:"is_admin"`
}

func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.Store.Users().All(c.Request().Context())
	if err != nil {
		return handlers.HTTPError(err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) GetUser(c echo.Context) error {
	user, err := h.Store.Users().ByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handlers.HTTPError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) CreateUser(c echo.Context) error {
	var req userRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	user := &models.User{Email: req.Email, PasswordHash: pwHash, IsAdmin: req.IsAdmin}
	if err := h.Store.Users().Create(c.Request().Context(), user); err != nil {
		return handlers.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *Handler) UpdateUser(c echo.Context) error {
	var req userRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Store.Users().ByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handlers.HTTPError(err)
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Password != "" {
		pwHash, err := hash.HashPassword(req.Password)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		user.PasswordHash = pwHash
	}
	user.IsAdmin = req.IsAdmin

	if err := h.Store.Users().Update(c.Request().Context(), user); err != nil {
		return handlers.HTTPError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser refuses deleting the calling admin's own account.
func (h *Handler) DeleteUser(c echo.Context) error {
	id := c.Param("id")
	if callerID, _ := auth.UserID(c); callerID == id {
		return echo.NewHTTPError(http.StatusBadRequest, "you cannot delete your own account")
	}
	if _, err := h.Store.Users().ByID(c.Request().Context(), id); err != nil {
		return handlers.HTTPError(err)
	}
	if err := h.Store.Users().Delete(c.Request().Context(), id); err != nil {
		return handlers.HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
