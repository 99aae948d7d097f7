package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ferremix/storefront/internal/handlers"
	"github.com/ferremix/storefront/internal/models"
)

type categoryRequest struct {
	Name string `json:"name" form:"name"`
	Slug string `json:"slug" form:"slug"`
}

func (h *Handler) ListCategories(c echo.Context) error {
	categories, err := h.Store.Categories().All(c.Request().Context())
	if err != nil {
		return handlers.HTTPError(err)
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *Handler) GetCategory(c echo.Context) error {
	id, err := handlers.UintParam(c, "id")
	if err != nil {
		return err
	}
	category, err := h.Store.Categories().ByID(c.Request().Context(), id)
	if err != nil {
		return handlers.HTTPError(err)
	}
	return c.JSON(http.StatusOK, category)
}

// CreateCategory refuses duplicate slugs with a conflict, writing nothing.
func (h *Handler) CreateCategory(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" || req.Slug == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and slug are required")
	}

	category := &models.Category{Name: req.Name, Slug: req.Slug}
	if err := h.Store.Categories().Create(c.Request().Context(), category); err != nil {
		return handlers.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *Handler) UpdateCategory(c echo.Context) error {
	id, err := handlers.UintParam(c, "id")
	if err != nil {
		return err
	}
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	category, err := h.Store.Categories().ByID(c.Request().Context(), id)
	if err != nil {
		return handlers.HTTPError(err)
	}
	category.Name = req.Name
	category.Slug = req.Slug

	if err := h.Store.Categories().Update(c.Request().Context(), category); err != nil {
		return handlers.HTTPError(err)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *Handler) DeleteCategory(c echo.Context) error {
	id, err := handlers.UintParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.Store.Categories().Delete(c.Request().Context(), id); err != nil {
		return handlers.HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
