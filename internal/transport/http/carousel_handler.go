package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/explorekarawang/directory-api/internal/service"
	"github.com/explorekarawang/directory-api/internal/util"
)

type CarouselHandler struct {
	slides *service.CarouselService
	logger *zap.Logger
}

type slideRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=1000"`
	Image       *string `json:"image"`
	ButtonText1 *string `json:"button_text_1" validate:"omitempty,max=60"`
	ButtonLink1 *string `json:"button_link_1" validate:"omitempty,max=500"`
	ButtonText2 *string `json:"button_text_2" validate:"omitempty,max=60"`
	ButtonLink2 *string `json:"button_link_2" validate:"omitempty,max=500"`
	SlideOrder  int     `json:"slide_order" validate:"min=0"`
	IsActive    *bool   `json:"is_active"`
}

// input defaults is_active to true when the field is absent.
func (r slideRequest) input() service.CarouselSlideInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return service.CarouselSlideInput{
		Title:       r.Title,
		Description: r.Description,
		Image:       r.Image,
		Primary:     service.SlideButton{Text: r.ButtonText1, Link: r.ButtonLink1},
		Secondary:   service.SlideButton{Text: r.ButtonText2, Link: r.ButtonLink2},
		SlideOrder:  r.SlideOrder,
		IsActive:    active,
	}
}

func RegisterCarousel(e *echo.Echo, slides *service.CarouselService, logger *zap.Logger) {
	h := &CarouselHandler{slides: slides, logger: logger}

	e.GET("/api/carousel", h.listActive)
	admin := e.Group("/api/carousel", RequireAdmin())
	admin.GET("/admin", h.listAll)
	admin.GET("/:id", h.get)
	admin.POST("", h.add)
	admin.PUT("/:id", h.update)
	admin.DELETE("/:id", h.delete)
}

func (h *CarouselHandler) listActive(c echo.Context) error {
	slides, err := h.slides.ListActive(c.Request().Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, util.Success("data", slides))
}

func (h *CarouselHandler) listAll(c echo.Context) error {
	slides, err := h.slides.ListAll(c.Request().Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, util.Success("data", slides))
}

func (h *CarouselHandler) get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid slide id")
	}
	slide, err := h.slides.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, util.Success("data", slide))
}

func (h *CarouselHandler) add(c echo.Context) error {
	var req slideRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	slide, err := h.slides.Add(c.Request().Context(), req.input())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, util.Success("data", slide))
}

func (h *CarouselHandler) update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid slide id")
	}
	var req slideRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	slide, err := h.slides.Update(c.Request().Context(), id, req.input())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, util.Success("data", slide))
}

func (h *CarouselHandler) delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid slide id")
	}
	if err := h.slides.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, util.Success())
}
