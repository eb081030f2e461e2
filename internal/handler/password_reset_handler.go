package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"tourcatalog/internal/service"
)

const (
	forgotPasswordMessage = "If an account with that email exists, a password reset link has been sent."
	validTokenMessage     = "Reset token is valid."
	invalidTokenMessage   = "Reset link is invalid or has expired."
	passwordResetMessage  = "Password has been reset. You can now log in."
)

// PasswordResetHandler exposes the password recovery flow.
type PasswordResetHandler struct {
	resets service.PasswordResetService
	logger *slog.Logger
}

// NewPasswordResetHandler creates a new password reset handler.
func NewPasswordResetHandler(resets service.PasswordResetService, logger *slog.Logger) *PasswordResetHandler {
	return &PasswordResetHandler{
		resets: resets,
		logger: logger.With(slog.String("component", "password_reset_handler")),
	}
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// ValidateResetTokenResponse reports whether a reset link is still usable.
type ValidateResetTokenResponse struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// ForgotPassword godoc
// @Summary Request a password reset email
// @Description The response is the same whether or not the email belongs to an account.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Account email"
// @Success 200 {object} MessageResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /auth/forgot-password [post]
func (h *PasswordResetHandler) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()

	var req ForgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		// Malformed input gets the same answer; nothing is looked up.
		h.logger.DebugContext(ctx, "ignoring malformed forgot-password request", slog.Any("error", err))
		return h.forgotPasswordAccepted(c)
	}

	// A failure here may only happen for existing accounts, so it is logged
	// and answered like every other request.
	if err := h.resets.RequestReset(ctx, req.Email); err != nil {
		h.logger.ErrorContext(ctx, "request password reset failed", slog.Any("error", err))
	}

	return h.forgotPasswordAccepted(c)
}

func (h *PasswordResetHandler) forgotPasswordAccepted(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{
		Success: true,
		Message: forgotPasswordMessage,
	})
}

// ValidateResetToken godoc
// @Summary Check a password reset link
// @Tags auth
// @Produce json
// @Param token query string true "Raw reset token"
// @Param email query string true "Account email"
// @Success 200 {object} ValidateResetTokenResponse
// @Failure 400 {object} ValidateResetTokenResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/reset-password/validate [get]
func (h *PasswordResetHandler) ValidateResetToken(c echo.Context) error {
	status, err := h.resets.ValidateToken(c.Request().Context(), c.QueryParam("token"), c.QueryParam("email"))
	if err != nil {
		return toHTTPError(err)
	}

	if !status.Valid {
		return c.JSON(http.StatusBadRequest, ValidateResetTokenResponse{
			Success: false,
			Message: invalidTokenMessage,
		})
	}
	return c.JSON(http.StatusOK, ValidateResetTokenResponse{
		Success:   true,
		Message:   validTokenMessage,
		ExpiresAt: status.ExpiresAt,
	})
}

// ResetPassword godoc
// @Summary Set a new password with a reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Token, email and new password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/reset-password [post]
func (h *PasswordResetHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.resets.ConsumeReset(c.Request().Context(), req.Token, req.Email, req.NewPassword); err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{
		Success: true,
		Message: passwordResetMessage,
	})
}
