package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/explorekarawang/directory-api/internal/service"
	"github.com/explorekarawang/directory-api/internal/util"
)

// CatalogHandler serves the category and facility preset registries.
type CatalogHandler struct {
	categories *service.CategoryService
	facilities *service.FacilityService
	logger     *zap.Logger
}

type categoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Type string `json:"type" validate:"required,oneof=destination culinary"`
}

type categoryRenameRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type facilityRequest struct {
	Type     string  `json:"type" validate:"required,oneof=destination culinary"`
	Name     string  `json:"name" validate:"required,max=100"`
	IconName *string `json:"icon_name"`
}

func RegisterCatalog(e *echo.Echo, categories *service.CategoryService, facilities *service.FacilityService, logger *zap.Logger) {
	h := &CatalogHandler{categories: categories, facilities: facilities, logger: logger}

	e.GET("/api/categories", h.listCategories)
	e.GET("/api/categories/counts", h.categoryCounts)
	cat := e.Group("/api/categories", RequireAdmin())
	cat.POST("", h.addCategory)
	cat.POST("/seed", h.seedCategories)
	cat.PUT("/:id", h.renameCategory)
	cat.DELETE("/:id", h.deleteCategory)

	e.GET("/api/facilities", h.listFacilities)
	fac := e.Group("/api/facilities", RequireAdmin())
	fac.POST("", h.addFacility)
	fac.DELETE("/:id", h.deleteFacility)
}

func (h *CatalogHandler) listCategories(c echo.Context) error {
	categories, err := h.categories.List(c.Request().Context(), c.QueryParam("type"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, util.Success("data", categories))
}

func (h *CatalogHandler) categoryCounts(c echo.Context) error {
	counts, err := h.categories.ListWithCounts(c.Request().Context(), c.QueryParam("type"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, util.Success("data", counts))
}

func (h *CatalogHandler) addCategory(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}
	category, err := h.categories.Add(c.Request().Context(), req.Name, req.Type)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, util.Success("data", category))
}

func (h *CatalogHandler) renameCategory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid category id")
	}
	var req categoryRenameRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}
	category, err := h.categories.Rename(c.Request().Context(), id, req.Name)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, util.Success("data", category))
}

func (h *CatalogHandler) deleteCategory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid category id")
	}
	if _, err := h.categories.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, util.Success())
}

func (h *CatalogHandler) seedCategories(c echo.Context) error {
	inserted, err := h.categories.EnsureSeedCategories(c.Request().Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, util.Success("inserted", inserted))
}

func (h *CatalogHandler) listFacilities(c echo.Context) error {
	presets, err := h.facilities.List(c.Request().Context(), c.QueryParam("type"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, util.Success("data", presets))
}

func (h *CatalogHandler) addFacility(c echo.Context) error {
	var req facilityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}
	preset, err := h.facilities.Add(c.Request().Context(), req.Type, req.Name, req.IconName)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, util.Success("data", preset))
}

func (h *CatalogHandler) deleteFacility(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid facility id")
	}
	if err := h.facilities.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, util.Success())
}
