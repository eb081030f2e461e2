package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tourcatalog/internal/service"
)

// AdminAttractionHandler manages attractions for the CMS.
type AdminAttractionHandler struct {
	svc service.AttractionAdminService
}

// NewAdminAttractionHandler creates a new admin attraction handler.
func NewAdminAttractionHandler(svc service.AttractionAdminService) *AdminAttractionHandler {
	return &AdminAttractionHandler{svc: svc}
}

// PublishRequest toggles the publication state.
type PublishRequest struct {
	Published *bool `json:"is_published" validate:"required"`
}

// List godoc
// @Summary List attractions in any state
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param search query string false "Text in name or descriptions"
// @Param category query int false "Category ID"
// @Param metro query int false "Metro station ID"
// @Param accessibility query string false "Accessibility feature"
// @Param sort query string false "Sort mode"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} model.PaginationResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/attractions [get]
func (h *AdminAttractionHandler) List(c echo.Context) error {
	result, err := h.svc.List(c.Request().Context(), c.QueryParams())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// Get godoc
// @Summary Get an attraction
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Attraction ID"
// @Success 200 {object} model.Attraction
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/attractions/{id} [get]
func (h *AdminAttractionHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	attraction, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, attraction)
}

// Create godoc
// @Summary Create an attraction
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.AttractionInput true "Attraction"
// @Success 201 {object} model.Attraction
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/attractions [post]
func (h *AdminAttractionHandler) Create(c echo.Context) error {
	var req service.AttractionInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	attraction, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, attraction)
}

// Update godoc
// @Summary Replace an attraction's fields
// @Description Images are left unchanged.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Attraction ID"
// @Param request body service.AttractionInput true "Attraction"
// @Success 200 {object} model.Attraction
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/attractions/{id} [put]
func (h *AdminAttractionHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req service.AttractionInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	attraction, err := h.svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, attraction)
}

// SetPublished godoc
// @Summary Publish or unpublish an attraction
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Attraction ID"
// @Param request body PublishRequest true "Publication state"
// @Success 200 {object} model.Attraction
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/attractions/{id}/publish [put]
func (h *AdminAttractionHandler) SetPublished(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req PublishRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	attraction, err := h.svc.SetPublished(c.Request().Context(), id, *req.Published)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, attraction)
}

// Delete godoc
// @Summary Delete an attraction and its images
// @Tags admin
// @Security BearerAuth
// @Param id path int true "Attraction ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/attractions/{id} [delete]
func (h *AdminAttractionHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
