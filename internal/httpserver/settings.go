package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_admin/internal/service"
	"github.com/Skotchmaster/shop_admin/internal/transport"
)

type SettingsHTTP struct {
	Svc *service.SettingsService
}

func (h *SettingsHTTP) GetConfig(c echo.Context) error {
	cfg, err := h.Svc.Config(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cfg)
}

func (h *SettingsHTTP) UpdateConfig(c echo.Context) error {
	var req transport.SiteConfigRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	cfg, err := h.Svc.SetWhatsApp(c.Request().Context(), *req.WhatsApp)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cfg)
}

func (h *SettingsHTTP) GetMaintenance(c echo.Context) error {
	on, err := h.Svc.Maintenance(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, transport.MaintenanceResponse{Maintenance: on})
}

func (h *SettingsHTTP) SetMaintenance(c echo.Context) error {
	var req transport.MaintenanceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	on, err := h.Svc.SetMaintenance(c.Request().Context(), *req.Maintenance)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, transport.MaintenanceResponse{Maintenance: on})
}

func (h *SettingsHTTP) ListCategories(c echo.Context) error {
	items, err := h.Svc.Categories(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *SettingsHTTP) CreateCategory(c echo.Context) error {
	var req transport.CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	cat, err := h.Svc.CreateCategory(c.Request().Context(), req.Name)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *SettingsHTTP) UpdateCategory(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req transport.CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	cat, err := h.Svc.RenameCategory(c.Request().Context(), id, req.Name)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *SettingsHTTP) DeleteCategory(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteCategory(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, transport.OKResponse{OK: true})
}

func (h *SettingsHTTP) ListTags(c echo.Context) error {
	items, err := h.Svc.Tags(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *SettingsHTTP) CreateTag(c echo.Context) error {
	var req transport.TagRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	tag, err := h.Svc.CreateTag(c.Request().Context(), req.Name, req.Color)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, tag)
}

func (h *SettingsHTTP) UpdateTag(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req transport.TagColorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	tag, err := h.Svc.UpdateTagColor(c.Request().Context(), id, req.Color)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, tag)
}

func (h *SettingsHTTP) DeleteTag(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteTag(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, transport.OKResponse{OK: true})
}
