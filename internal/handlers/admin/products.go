package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ferremix/storefront/internal/handlers"
	"github.com/ferremix/storefront/internal/logging"
	"github.com/ferremix/storefront/internal/models"
	"github.com/ferremix/storefront/internal/mykafka"
)

type productRequest struct {
	Name        string  `json:"name"        form:"name"`
	Description string  `json:"description" form:"description"`
	Price       float64 `json:"price"       form:"price"`
	ImageURL    string  `json:"image_url"   form:"image_url"`
	CategoryID  *uint   `json:"category_id" form:"category_id"`
	IsOffer     bool    `json:"is_offer"    form:"is_offer"`
	Stock       int     `json:"stock"       form:"stock"`
}

func (h *Handler) ListProducts(c echo.Context) error {
	products, err := h.Store.Products().All(c.Request().Context(), 0)
	if err != nil {
		return handlers.HTTPError(err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *Handler) GetProduct(c echo.Context) error {
	id, err := handlers.UintParam(c, "id")
	if err != nil {
		return err
	}
	product, err := h.Store.Products().ByID(c.Request().Context(), id)
	if err != nil {
		return handlers.HTTPError(err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *Handler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if req.Price < 0 || req.Stock < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "price and stock must not be negative")
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
		IsOffer:     req.IsOffer,
		Stock:       req.Stock,
	}
	if err := h.Store.Products().Create(c.Request().Context(), product); err != nil {
		return handlers.HTTPError(err)
	}

	h.reindex(c, product)
	h.publish(c, mykafka.TopicProductEvents, product.Name, map[string]any{
		"type":      "product_created",
		"productID": product.ID,
		"name":      product.Name,
	})

	return c.JSON(http.StatusCreated, product)
}

func (h *Handler) UpdateProduct(c echo.Context) error {
	id, err := handlers.UintParam(c, "id")
	if err != nil {
		return err
	}
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	product, err := h.Store.Products().ByID(c.Request().Context(), id)
	if err != nil {
		return handlers.HTTPError(err)
	}
	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.ImageURL = req.ImageURL
	product.CategoryID = req.CategoryID
	product.IsOffer = req.IsOffer
	product.Stock = req.Stock

	if err := h.Store.Products().Update(c.Request().Context(), product); err != nil {
		return handlers.HTTPError(err)
	}

	h.reindex(c, product)
	h.publish(c, mykafka.TopicProductEvents, product.Name, map[string]any{
		"type":      "product_updated",
		"productID": product.ID,
		"name":      product.Name,
	})

	return c.JSON(http.StatusOK, product)
}

func (h *Handler) DeleteProduct(c echo.Context) error {
	id, err := handlers.UintParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.Store.Products().Delete(c.Request().Context(), id); err != nil {
		return handlers.HTTPError(err)
	}

	if err := h.Index.DeleteProduct(c.Request().Context(), id); err != nil {
		logging.FromContext(c.Request().Context()).Warn("search deindex failed",
			"productID", id, "error", err)
	}
	h.publish(c, mykafka.TopicProductEvents, c.Param("id"), map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) reindex(c echo.Context, p *models.Product) {
	if err := h.Index.IndexProduct(c.Request().Context(), p); err != nil {
		logging.FromContext(c.Request().Context()).Warn("search index failed",
			"productID", p.ID, "error", err)
	}
}
