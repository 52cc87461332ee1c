package http

import (
	"net/http"
	"path"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/explorekarawang/directory-api/internal/service"
	"github.com/explorekarawang/directory-api/internal/util"
)

type UploadHandler struct {
	uploads *service.UploadService
	devices *service.DeviceResolver
	logger  *zap.Logger
}

type uploadResponse struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

func RegisterUploads(e *echo.Echo, uploads *service.UploadService, devices *service.DeviceResolver, logger *zap.Logger) {
	h := &UploadHandler{uploads: uploads, devices: devices, logger: logger}
	e.POST("/api/upload", h.upload, h.requireUploader)
}

// requireUploader admits signed-in admins and visitors that already hold a
// device cookie from a previous rating.
func (h *UploadHandler) requireUploader(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := CurrentAdmin(c); ok {
			return next(c)
		}
		if id, ok := h.devices.Peek(c); ok {
			c.Set(contextDeviceKey, id)
			return next(c)
		}
		return c.JSON(http.StatusUnauthorized, util.Error("upload requires a session or device cookie"))
	}
}

func (h *UploadHandler) upload(c echo.Context) error {
	if !h.uploads.Enabled() {
		return respondError(c, h.logger, service.ErrUploadsDisabled)
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}
	if fileHeader.Size > h.uploads.MaxBytes() {
		return badRequest(c, "file is too large")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, "unable to read file")
	}
	defer file.Close()

	result, err := h.uploads.Upload(c.Request().Context(), service.UploadInput{
		Reader:   file,
		FileName: fileHeader.Filename,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, util.Success("data", uploadResponse{
		URL:         result.URL,
		Filename:    path.Base(result.Key),
		ContentType: result.ContentType,
		Size:        result.Size,
	}))
}
