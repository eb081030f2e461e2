package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tourcatalog/internal/service"
)

// UserHandler bundles user administration handlers.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// SetActiveRequest enables or disables an account.
type SetActiveRequest struct {
	Active *bool `json:"is_active" validate:"required"`
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Router /admin/users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// SetActive godoc
// @Summary Activate or deactivate a user
// @Description A deactivated user cannot log in and any pending reset link stops working.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body SetActiveRequest true "Account state"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id}/active [put]
func (h *UserHandler) SetActive(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req SetActiveRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.svc.SetActive(c.Request().Context(), id, *req.Active)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, user)
}
