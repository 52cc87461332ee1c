package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/explorekarawang/directory-api/internal/domain"
	"github.com/explorekarawang/directory-api/internal/service"
	"github.com/explorekarawang/directory-api/internal/util"
)

type SubmissionHandler struct {
	submissions *service.SubmissionService
	devices     *service.DeviceResolver
	logger      *zap.Logger
}

// submissionRequest carries the submitter envelope. Proposed content fields
// either sit next to it at the top level or inside "payload".
type submissionRequest struct {
	SubmitterName  string          `json:"submitter_name" validate:"required"`
	SubmitterEmail *string         `json:"submitter_email" validate:"omitempty,email"`
	SubmitterPhone *string         `json:"submitter_phone"`
	ItemType       string          `json:"item_type" validate:"required,oneof=destination culinary"`
	Payload        json.RawMessage `json:"payload"`
}

type moderationRequest struct {
	Notes *string `json:"notes"`
}

func RegisterSubmissions(e *echo.Echo, submissions *service.SubmissionService, devices *service.DeviceResolver, logger *zap.Logger) {
	h := &SubmissionHandler{submissions: submissions, devices: devices, logger: logger}

	e.POST("/api/submissions", h.create)

	admin := e.Group("/api/submissions", RequireAdmin())
	admin.GET("", h.list)
	admin.GET("/:id", h.get)
	admin.POST("/:id/approve", h.approve)
	admin.POST("/:id/reject", h.reject)
}

func (h *SubmissionHandler) create(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return badRequest(c, "invalid request body")
	}
	var req submissionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	payload := req.Payload
	if len(bytes.TrimSpace(payload)) == 0 || bytes.Equal(bytes.TrimSpace(payload), []byte("null")) {
		payload = body
	}

	submission, err := h.submissions.Create(c.Request().Context(), service.SubmissionCreateInput{
		Submitter: domain.Submitter{
			Name:  req.SubmitterName,
			Email: req.SubmitterEmail,
			Phone: req.SubmitterPhone,
		},
		ItemType:    req.ItemType,
		Payload:     payload,
		ThrottleKey: h.throttleKey(c),
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, util.Success("id", submission.ID))
}

// throttleKey prefers the visitor's device id and falls back to the client IP.
func (h *SubmissionHandler) throttleKey(c echo.Context) string {
	if id, ok := h.devices.Peek(c); ok {
		c.Set(contextDeviceKey, id)
		return "device:" + id
	}
	if ip := c.RealIP(); ip != "" {
		return "ip:" + ip
	}
	return ""
}

func (h *SubmissionHandler) list(c echo.Context) error {
	submissions, err := h.submissions.ListByStatus(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, util.Success("data", submissions))
}

func (h *SubmissionHandler) get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid submission id")
	}
	submission, err := h.submissions.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, util.Success("data", submission))
}

func (h *SubmissionHandler) approve(c echo.Context) error {
	id, notes, ok := h.moderationInput(c)
	if !ok {
		return nil
	}
	_, newID, err := h.submissions.Approve(c.Request().Context(), id, notes)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, util.Success("newId", newID))
}

func (h *SubmissionHandler) reject(c echo.Context) error {
	id, notes, ok := h.moderationInput(c)
	if !ok {
		return nil
	}
	if _, err := h.submissions.Reject(c.Request().Context(), id, notes); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, util.Success())
}

// moderationInput parses the path id and optional notes body. On failure the
// 400 response has already been written.
func (h *SubmissionHandler) moderationInput(c echo.Context) (uuid.UUID, *string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		_ = badRequest(c, "invalid submission id")
		return uuid.Nil, nil, false
	}
	var req moderationRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			_ = badRequest(c, "invalid request body")
			return uuid.Nil, nil, false
		}
	}
	return id, req.Notes, true
}
