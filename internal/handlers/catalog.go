package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ferremix/storefront/internal/store"
)

const homePageLimit = 20

type CatalogHandler struct {
	Store store.Store
}

// Home lists categories plus the first products for the storefront page.
func (h *CatalogHandler) Home(c echo.Context) error {
	ctx := c.Request().Context()

	categories, err := h.Store.Categories().All(ctx)
	if err != nil {
		return HTTPError(err)
	}
	products, err := h.Store.Products().All(ctx, homePageLimit)
	if err != nil {
		return HTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"categories": categories,
		"products":   products,
	})
}

// Offers filters offer products by the sparse query predicates; empty
// parameters are skipped.
func (h *CatalogHandler) Offers(c echo.Context) error {
	isOffer := true
	f := store.ProductFilter{IsOffer: &isOffer, Search: c.QueryParam("search")}

	if v := c.QueryParam("category"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid category")
		}
		cid := uint(id)
		f.CategoryID = &cid
	}
	if v := c.QueryParam("min_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid min_price")
		}
		f.MinPrice = &p
	}
	if v := c.QueryParam("max_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid max_price")
		}
		f.MaxPrice = &p
	}

	ctx := c.Request().Context()
	categories, err := h.Store.Categories().All(ctx)
	if err != nil {
		return HTTPError(err)
	}
	products, err := h.Store.Products().Filter(ctx, f)
	if err != nil {
		return HTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"categories": categories,
		"products":   products,
	})
}

func (h *CatalogHandler) ProductDetail(c echo.Context) error {
	id, err := UintParam(c, "id")
	if err != nil {
		return err
	}
	product, err := h.Store.Products().ByID(c.Request().Context(), id)
	if err != nil {
		return HTTPError(err)
	}
	return c.JSON(http.StatusOK, product)
}
