package http

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/explorekarawang/directory-api/internal/domain"
	"github.com/explorekarawang/directory-api/internal/service"
	"github.com/explorekarawang/directory-api/internal/util"
)

type RatingHandler struct {
	ratings *service.RatingService
	devices *service.DeviceResolver
	logger  *zap.Logger
}

type ratingRequest struct {
	ItemType string   `json:"item_type" validate:"required,oneof=destination culinary"`
	ItemID   string   `json:"item_id" validate:"required"`
	Rating   int      `json:"rating" validate:"required,min=1,max=5"`
	Comment  *string  `json:"comment"`
	Media    []string `json:"media" validate:"max=5"`
}

// adminRatingResponse exposes provenance fields hidden from public listings.
type adminRatingResponse struct {
	domain.AdminRating
	DeviceID  string  `json:"device_id"`
	IPAddress *string `json:"ip_address,omitempty"`
	UserAgent *string `json:"user_agent,omitempty"`
}

func RegisterRatings(e *echo.Echo, ratings *service.RatingService, devices *service.DeviceResolver, logger *zap.Logger) {
	h := &RatingHandler{ratings: ratings, devices: devices, logger: logger}

	g := e.Group("/api/ratings")
	g.GET("", h.list)
	g.POST("", h.submit)

	admin := e.Group("/api/ratings", RequireAdmin())
	admin.GET("/admin", h.listAll)
	admin.POST("/:id/toggle", h.toggle)
	admin.DELETE("/:id/delete", h.delete)
	admin.DELETE("/:id", h.delete)
}

// list handles GET /api/ratings?item_type=&item_id=
func (h *RatingHandler) list(c echo.Context) error {
	itemType := strings.TrimSpace(c.QueryParam("item_type"))
	itemID := strings.TrimSpace(c.QueryParam("item_id"))
	if itemType == "" || itemID == "" {
		return badRequest(c, "missing item_type or item_id")
	}
	ctx := c.Request().Context()
	ratings, err := h.ratings.List(ctx, itemType, itemID, false)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	summary, err := h.ratings.Average(ctx, itemType, itemID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, util.Success("ratings", ratings, "summary", summary))
}

// submit handles POST /api/ratings
func (h *RatingHandler) submit(c echo.Context) error {
	var req ratingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	deviceID, _, err := h.devices.Resolve(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	c.Set(contextDeviceKey, deviceID)
	ip, ua := service.ClientFingerprint(c.Request())

	rating, err := h.ratings.Submit(c.Request().Context(), service.RatingSubmitInput{
		ItemType:  req.ItemType,
		ItemID:    req.ItemID,
		DeviceID:  deviceID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		Media:     req.Media,
		IPAddress: ip,
		UserAgent: ua,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, util.Success("id", rating.ID))
}

// listAll handles GET /api/ratings/admin
func (h *RatingHandler) listAll(c echo.Context) error {
	ratings, err := h.ratings.ListAll(c.Request().Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	out := make([]adminRatingResponse, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, adminRatingResponse{
			AdminRating: r,
			DeviceID:    r.DeviceID,
			IPAddress:   r.IPAddress,
			UserAgent:   r.UserAgent,
		})
	}
	return c.JSON(http.StatusOK, util.Success("ratings", out))
}

// toggle handles POST /api/ratings/:id/toggle
func (h *RatingHandler) toggle(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid rating id")
	}
	visible, err := h.ratings.ToggleVisibility(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, util.Success("visible", visible))
}

// delete handles DELETE /api/ratings/:id and its legacy /delete alias
func (h *RatingHandler) delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid rating id")
	}
	if err := h.ratings.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, util.Success())
}
