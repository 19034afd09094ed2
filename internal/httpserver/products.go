package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_admin/internal/models"
	"github.com/Skotchmaster/shop_admin/internal/service"
	"github.com/Skotchmaster/shop_admin/internal/transport"
	"github.com/Skotchmaster/shop_admin/internal/util"
)

type ProductsHTTP struct {
	Svc *service.CatalogService
}

// List returns a bare array without paging parameters and a page object
// with them.
func (h *ProductsHTTP) List(c echo.Context) error {
	page, err := intQuery(c, "page", 0)
	if err != nil {
		return err
	}
	size, err := intQuery(c, "size", util.DefaultPageSize)
	if err != nil {
		return err
	}

	total, items, err := h.Svc.List(c.Request().Context(), page, size)
	if err != nil {
		return httpError(err)
	}
	if page <= 0 {
		return c.JSON(http.StatusOK, items)
	}
	return c.JSON(http.StatusOK, productsPage(items, total, page, size))
}

func (h *ProductsHTTP) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	prod, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductsHTTP) Search(c echo.Context) error {
	page, err := intQuery(c, "page", 1)
	if err != nil {
		return err
	}
	size, err := intQuery(c, "size", util.DefaultPageSize)
	if err != nil {
		return err
	}

	total, items, err := h.Svc.Search(c.Request().Context(), c.QueryParam("q"), page, size)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, productsPage(items, total, page, size))
}

func (h *ProductsHTTP) Create(c echo.Context) error {
	var req transport.CreateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	prod, err := h.Svc.Create(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductsHTTP) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req transport.PatchProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	prod, err := h.Svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductsHTTP) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, transport.OKResponse{OK: true})
}

func productsPage(items []models.Product, total int64, page, size int) transport.ProductsPage {
	_, limit := util.Calculate(page, size)
	return transport.ProductsPage{
		Items: items,
		Total: total,
		Page:  page,
		Size:  limit,
		Pages: util.Pages(total, limit),
	}
}
