package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tourcatalog/internal/service"
)

// CatalogHandler serves the public catalog.
type CatalogHandler struct {
	query   service.AttractionQueryService
	catalog service.CatalogService
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(query service.AttractionQueryService, catalog service.CatalogService) *CatalogHandler {
	return &CatalogHandler{query: query, catalog: catalog}
}

// ListAttractions godoc
// @Summary Search published attractions
// @Description Every parameter is optional; blank values are ignored.
// @Tags catalog
// @Produce json
// @Param search query string false "Case-insensitive text in name or descriptions"
// @Param category query int false "Category ID"
// @Param metro query int false "Metro station ID"
// @Param accessibility query string false "Accessibility feature" Enums(wheelchair, audio, elevator, sign_language)
// @Param sort query string false "Sort mode" Enums(name, newest, oldest, category) default(name)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page, 1 to 50" default(12)
// @Success 200 {object} model.PaginationResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /attractions [get]
func (h *CatalogHandler) ListAttractions(c echo.Context) error {
	result, err := h.query.Query(c.Request().Context(), c.QueryParams())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetAttraction godoc
// @Summary Get a published attraction
// @Tags catalog
// @Produce json
// @Param id path int true "Attraction ID"
// @Success 200 {object} model.Attraction
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /attractions/{id} [get]
func (h *CatalogHandler) GetAttraction(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	attraction, err := h.query.GetPublished(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, attraction)
}

// ListCategories godoc
// @Summary List categories
// @Tags catalog
// @Produce json
// @Success 200 {array} model.Category
// @Failure 500 {object} errors.ErrorResponse
// @Router /categories [get]
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.catalog.ListCategories(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, categories)
}

// ListMetroStations godoc
// @Summary List metro stations
// @Tags catalog
// @Produce json
// @Success 200 {array} model.MetroStation
// @Failure 500 {object} errors.ErrorResponse
// @Router /metro-stations [get]
func (h *CatalogHandler) ListMetroStations(c echo.Context) error {
	stations, err := h.catalog.ListMetroStations(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, stations)
}
