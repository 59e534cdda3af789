package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dentexpo/expo-manager/internal/model"
)

type productBody struct {
	Model string `json:"model"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CreateProduct handles POST /v1/products.
func (h *Handler) CreateProduct(c echo.Context) error {
	var body productBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	p := model.Product{Model: body.Model, Name: body.Name, Color: body.Color}
	if errs := p.Validate(); len(errs) > 0 {
		return respondValidation(c, errs)
	}
	if err := h.Products.Create(c.Request().Context(), &p); err != nil {
		return h.respondRepoErr(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusCreated, p)
}

// CreateProductBatch handles POST /v1/products/batch and inserts all
// submitted products in one transaction.  The whole batch is rejected
// when any entry fails validation.
func (h *Handler) CreateProductBatch(c echo.Context) error {
	var bodies []productBody
	if err := c.Bind(&bodies); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(bodies) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "empty batch"})
	}
	products := make([]model.Product, 0, len(bodies))
	for i, body := range bodies {
		p := model.Product{Model: body.Model, Name: body.Name, Color: body.Color}
		if errs := p.Validate(); len(errs) > 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs, "index": i})
		}
		products = append(products, p)
	}
	n, err := h.Products.CreateBatch(c.Request().Context(), products)
	if err != nil {
		return h.respondRepoErr(c, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusCreated, echo.Map{"created": n})
}

// ListProducts handles GET /v1/products.  The optional q parameter
// filters across ID, model, name, color and series.
func (h *Handler) ListProducts(c echo.Context) error {
	products, err := h.Products.List(c.Request().Context())
	if err != nil {
		return h.respondRepoErr(c, err)
	}
	if q := c.QueryParam("q"); q != "" {
		filtered := products[:0]
		for _, p := range products {
			if p.MatchesSearch(q) {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}
	if products == nil {
		products = []model.Product{}
	}
	return c.JSON(http.StatusOK, products)
}

// GetProduct handles GET /v1/products/:id.
func (h *Handler) GetProduct(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product id must be a positive integer"})
	}
	p, err := h.Products.GetByID(c.Request().Context(), id)
	if err != nil {
		return h.respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// UpdateProduct handles PUT /v1/products/:id.
func (h *Handler) UpdateProduct(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product id must be a positive integer"})
	}
	var body productBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	p := model.Product{ID: id, Model: body.Model, Name: body.Name, Color: body.Color}
	if errs := p.Validate(); len(errs) > 0 {
		return respondValidation(c, errs)
	}
	if err := h.Products.Update(c.Request().Context(), &p); err != nil {
		return h.respondRepoErr(c, err)
	}
	h.invalidate(c)
	stored, err := h.Products.GetByID(c.Request().Context(), id)
	if err != nil {
		return h.respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, stored)
}

// DeleteProduct handles DELETE /v1/products/:id.  Products with
// participation records are refused with 409 unless cascade=1.
func (h *Handler) DeleteProduct(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product id must be a positive integer"})
	}
	cascade := c.QueryParam("cascade") == "1"
	if err := h.Products.Delete(c.Request().Context(), id, cascade); err != nil {
		return h.respondRepoErr(c, err)
	}
	h.invalidate(c)
	return c.NoContent(http.StatusNoContent)
}
