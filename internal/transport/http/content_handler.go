package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/explorekarawang/directory-api/internal/service"
	"github.com/explorekarawang/directory-api/internal/util"
)

type ContentHandler struct {
	content *service.ContentService
	logger  *zap.Logger
}

type destinationRequest struct {
	Title           string     `json:"title" validate:"required,max=200"`
	Description     string     `json:"description"`
	Image           string     `json:"image"`
	Location        string     `json:"location"`
	Category        string     `json:"category"`
	CategoryID      *uuid.UUID `json:"category_id"`
	Facilities      []string   `json:"facilities"`
	BestTimeToVisit string     `json:"bestTimeToVisit"`
	EntranceFee     string     `json:"entranceFee"`
	GoogleMapsLink  *string    `json:"googleMapsLink"`
	Rating          *float64   `json:"rating" validate:"omitempty,min=0,max=5"`
}

func (r destinationRequest) input() service.DestinationInput {
	return service.DestinationInput{
		Title:           r.Title,
		Description:     r.Description,
		Image:           r.Image,
		Location:        r.Location,
		Category:        r.Category,
		CategoryID:      r.CategoryID,
		Facilities:      r.Facilities,
		BestTimeToVisit: r.BestTimeToVisit,
		EntranceFee:     r.EntranceFee,
		GoogleMapsLink:  r.GoogleMapsLink,
		Rating:          r.Rating,
	}
}

// culinaryRequest accepts title or restaurant; the service fills one from the other.
type culinaryRequest struct {
	Title          string     `json:"title" validate:"required_without=Restaurant,max=200"`
	Restaurant     string     `json:"restaurant" validate:"max=200"`
	Description    string     `json:"description"`
	Image          string     `json:"image"`
	Location       string     `json:"location"`
	Category       string     `json:"category"`
	CategoryID     *uuid.UUID `json:"category_id"`
	PriceRange     string     `json:"priceRange"`
	OpeningHours   string     `json:"openingHours"`
	Specialties    []string   `json:"specialties"`
	Facilities     []string   `json:"facilities"`
	GoogleMapsLink *string    `json:"googleMapsLink"`
	Rating         *float64   `json:"rating" validate:"omitempty,min=0,max=5"`
}

func (r culinaryRequest) input() service.CulinaryInput {
	return service.CulinaryInput{
		Title:          r.Title,
		Restaurant:     r.Restaurant,
		Description:    r.Description,
		Image:          r.Image,
		Location:       r.Location,
		Category:       r.Category,
		CategoryID:     r.CategoryID,
		PriceRange:     r.PriceRange,
		OpeningHours:   r.OpeningHours,
		Specialties:    r.Specialties,
		Facilities:     r.Facilities,
		GoogleMapsLink: r.GoogleMapsLink,
		Rating:         r.Rating,
	}
}

func RegisterContent(e *echo.Echo, content *service.ContentService, logger *zap.Logger) {
	h := &ContentHandler{content: content, logger: logger}

	e.GET("/api/destinations", h.listDestinations)
	e.GET("/api/destinations/:id", h.getDestination)
	dest := e.Group("/api/destinations", RequireAdmin())
	dest.POST("", h.createDestination)
	dest.PUT("/:id", h.updateDestination)
	dest.DELETE("/:id", h.deleteDestination)

	e.GET("/api/culinary", h.listCulinary)
	e.GET("/api/culinary/:id", h.getCulinary)
	cul := e.Group("/api/culinary", RequireAdmin())
	cul.POST("", h.createCulinary)
	cul.PUT("/:id", h.updateCulinary)
	cul.DELETE("/:id", h.deleteCulinary)
}

func (h *ContentHandler) listDestinations(c echo.Context) error {
	items, err := h.content.ListDestinations(c.Request().Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, util.Success("data", items))
}

func (h *ContentHandler) getDestination(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid destination id")
	}
	item, err := h.content.GetDestination(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, util.Success("data", item))
}

func (h *ContentHandler) createDestination(c echo.Context) error {
	var req destinationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	item, err := h.content.CreateDestination(c.Request().Context(), req.input())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, util.Success("data", item))
}

func (h *ContentHandler) updateDestination(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid destination id")
	}
	var req destinationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	item, err := h.content.UpdateDestination(c.Request().Context(), id, req.input())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, util.Success("data", item))
}

func (h *ContentHandler) deleteDestination(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid destination id")
	}
	if err := h.content.DeleteDestination(c.Request().Context(), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, util.Success())
}

func (h *ContentHandler) listCulinary(c echo.Context) error {
	items, err := h.content.ListCulinary(c.Request().Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, util.Success("data", items))
}

func (h *ContentHandler) getCulinary(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid culinary id")
	}
	item, err := h.content.GetCulinary(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, util.Success("data", item))
}

func (h *ContentHandler) createCulinary(c echo.Context) error {
	var req culinaryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	item, err := h.content.CreateCulinary(c.Request().Context(), req.input())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, util.Success("data", item))
}

func (h *ContentHandler) updateCulinary(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid culinary id")
	}
	var req culinaryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	item, err := h.content.UpdateCulinary(c.Request().Context(), id, req.input())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, util.Success("data", item))
}

func (h *ContentHandler) deleteCulinary(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid culinary id")
	}
	if err := h.content.DeleteCulinary(c.Request().Context(), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, util.Success())
}
