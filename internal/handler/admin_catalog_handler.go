package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tourcatalog/internal/service"
)

// AdminCatalogHandler manages categories and metro stations.
type AdminCatalogHandler struct {
	svc service.CatalogService
}

// NewAdminCatalogHandler creates a new admin catalog handler.
func NewAdminCatalogHandler(svc service.CatalogService) *AdminCatalogHandler {
	return &AdminCatalogHandler{svc: svc}
}

// CreateCategory godoc
// @Summary Create a category
// @Description The slug is derived from the name when omitted.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CategoryInput true "Category"
// @Success 201 {object} model.Category
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/categories [post]
func (h *AdminCatalogHandler) CreateCategory(c echo.Context) error {
	var req service.CategoryInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	category, err := h.svc.CreateCategory(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory godoc
// @Summary Update a category
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param request body service.CategoryInput true "Category"
// @Success 200 {object} model.Category
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/categories/{id} [put]
func (h *AdminCatalogHandler) UpdateCategory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req service.CategoryInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	category, err := h.svc.UpdateCategory(c.Request().Context(), id, req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary Delete an unused category
// @Tags admin
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/categories/{id} [delete]
func (h *AdminCatalogHandler) DeleteCategory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteCategory(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateMetroStation godoc
// @Summary Create a metro station
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.MetroStationInput true "Metro station"
// @Success 201 {object} model.MetroStation
// @Failure 400 {object} errors.ErrorResponse
// @Router /admin/metro-stations [post]
func (h *AdminCatalogHandler) CreateMetroStation(c echo.Context) error {
	var req service.MetroStationInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	station, err := h.svc.CreateMetroStation(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, station)
}

// UpdateMetroStation godoc
// @Summary Update a metro station
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Metro station ID"
// @Param request body service.MetroStationInput true "Metro station"
// @Success 200 {object} model.MetroStation
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/metro-stations/{id} [put]
func (h *AdminCatalogHandler) UpdateMetroStation(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req service.MetroStationInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	station, err := h.svc.UpdateMetroStation(c.Request().Context(), id, req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, station)
}

// DeleteMetroStation godoc
// @Summary Delete a metro station
// @Description Attractions near the station keep existing without a station.
// @Tags admin
// @Security BearerAuth
// @Param id path int true "Metro station ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/metro-stations/{id} [delete]
func (h *AdminCatalogHandler) DeleteMetroStation(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteMetroStation(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
