package httpserver

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_admin/internal/service"
	"github.com/Skotchmaster/shop_admin/internal/transport"
)

type UploadHTTP struct {
	Svc *service.UploadService
}

func (h *UploadHTTP) Image(c echo.Context) error {
	f, err := readFormFile(c, service.MaxImageSize)
	if err != nil {
		return err
	}
	url, err := h.Svc.UploadImage(c.Request().Context(), f)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, transport.UploadResponse{Message: "image uploaded", URL: url})
}

func (h *UploadHTTP) Spec(c echo.Context) error {
	f, err := readFormFile(c, service.MaxSpecSize)
	if err != nil {
		return err
	}
	url, key, err := h.Svc.UploadSpec(c.Request().Context(), f, c.FormValue("oldPath"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, transport.UploadResponse{Message: "document uploaded", URL: url, Path: key})
}

// readFormFile reads the "file" part, allowing one byte past limit so the
// service can reject oversized uploads.
func readFormFile(c echo.Context, limit int64) (service.UploadedFile, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return service.UploadedFile{}, echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	if fh.Size > limit {
		return service.UploadedFile{}, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("file exceeds %d bytes", limit))
	}
	src, err := fh.Open()
	if err != nil {
		return service.UploadedFile{}, echo.NewHTTPError(http.StatusBadRequest, "cannot read file")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return service.UploadedFile{}, echo.NewHTTPError(http.StatusBadRequest, "cannot read file")
	}
	return service.UploadedFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Data:        data,
	}, nil
}
