package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tourcatalog/internal/errors"
	"tourcatalog/internal/service"
)

// maxImportBytes bounds the size of an uploaded catalog bundle.
const maxImportBytes = 10 << 20

// ImportHandler loads catalog bundles.
type ImportHandler struct {
	importer service.ImportService
}

// NewImportHandler creates a new import handler.
func NewImportHandler(importer service.ImportService) *ImportHandler {
	return &ImportHandler{importer: importer}
}

// ImportResponse represents the import response.
type ImportResponse struct {
	Message string                 `json:"message"`
	Summary *service.ImportSummary `json:"summary"`
}

// Import godoc
// @Summary Import a catalog bundle
// @Description Upserts categories by slug, metro stations by name and attractions by name in one transaction.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CatalogBundle true "Catalog bundle"
// @Success 200 {object} ImportResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/import [post]
func (h *ImportHandler) Import(c echo.Context) error {
	body := http.MaxBytesReader(c.Response(), c.Request().Body, maxImportBytes)
	bundle, err := service.DecodeCatalogBundle(body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid catalog bundle",
			Code:  "INVALID_BODY",
		}).SetInternal(err)
	}
	if err := c.Validate(bundle); err != nil {
		return toHTTPError(err)
	}

	summary, err := h.importer.Import(c.Request().Context(), bundle)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, ImportResponse{
		Message: "catalog imported successfully",
		Summary: summary,
	})
}
