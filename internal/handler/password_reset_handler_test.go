package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "tourcatalog/internal/errors"
	"tourcatalog/internal/logging"
	"tourcatalog/internal/service"
)

func newResetTestEcho(resets *MockPasswordResetService) *echo.Echo {
	e := newTestEcho()
	h := NewPasswordResetHandler(resets, logging.Discard())
	e.POST("/api/auth/forgot-password", h.ForgotPassword)
	e.GET("/api/auth/reset-password/validate", h.ValidateResetToken)
	e.POST("/api/auth/reset-password", h.ResetPassword)
	return e
}

func TestForgotPassword_SameAnswerWhateverHappens(t *testing.T) {
	resets := new(MockPasswordResetService)
	resets.On("RequestReset", mock.Anything, "anna@example.com").Return(nil)
	resets.On("RequestReset", mock.Anything, "boris@example.com").Return(apperrors.NewStoreError("set reset ticket", errors.New("deadlock")))
	e := newResetTestEcho(resets)

	ok := serve(e, http.MethodPost, "/api/auth/forgot-password", `{"email":"anna@example.com"}`)
	failed := serve(e, http.MethodPost, "/api/auth/forgot-password", `{"email":"boris@example.com"}`)

	require.Equal(t, http.StatusOK, ok.Code)
	require.Equal(t, http.StatusOK, failed.Code)
	assert.JSONEq(t, ok.Body.String(), failed.Body.String())

	var resp MessageResponse
	require.NoError(t, json.Unmarshal(ok.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, forgotPasswordMessage, resp.Message)
	resets.AssertExpectations(t)
}

func TestForgotPassword_MalformedInputGetsGenericAnswer(t *testing.T) {
	resets := new(MockPasswordResetService)
	e := newResetTestEcho(resets)

	for _, body := range []string{
		`{"email":"not-an-email"}`,
		`{"email":""}`,
		`{}`,
		`{"email":`,
	} {
		rec := serve(e, http.MethodPost, "/api/auth/forgot-password", body)
		require.Equal(t, http.StatusOK, rec.Code, body)

		var resp MessageResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), body)
		assert.True(t, resp.Success, body)
		assert.Equal(t, forgotPasswordMessage, resp.Message, body)
	}

	resets.AssertNotCalled(t, "RequestReset", mock.Anything, mock.Anything)
}

func TestValidateResetToken(t *testing.T) {
	expires := time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC)
	resets := new(MockPasswordResetService)
	resets.On("ValidateToken", mock.Anything, "good", "anna@example.com").
		Return(&service.ResetTokenStatus{Valid: true, ExpiresAt: &expires}, nil)
	resets.On("ValidateToken", mock.Anything, "stale", "anna@example.com").
		Return(&service.ResetTokenStatus{Valid: false}, nil)
	resets.On("ValidateToken", mock.Anything, "", "").
		Return(&service.ResetTokenStatus{Valid: false}, nil)
	e := newResetTestEcho(resets)

	t.Run("valid", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/api/auth/reset-password/validate?token=good&email=anna%40example.com", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp ValidateResetTokenResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		require.NotNil(t, resp.ExpiresAt)
		assert.True(t, expires.Equal(*resp.ExpiresAt))
	})

	for name, target := range map[string]string{
		"stale":   "/api/auth/reset-password/validate?token=stale&email=anna%40example.com",
		"missing": "/api/auth/reset-password/validate",
	} {
		t.Run(name, func(t *testing.T) {
			rec := serve(e, http.MethodGet, target, "")
			require.Equal(t, http.StatusBadRequest, rec.Code)
			var resp ValidateResetTokenResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, invalidTokenMessage, resp.Message)
			assert.Nil(t, resp.ExpiresAt)
			assert.NotContains(t, rec.Body.String(), "expiresAt")
		})
	}
}

func TestResetPassword(t *testing.T) {
	weak := &apperrors.ValidationError{}
	weak.Add("newPassword", "must be at least 8 characters")

	resets := new(MockPasswordResetService)
	resets.On("ConsumeReset", mock.Anything, "good", "anna@example.com", "n3w-Passw0rd").Return(nil)
	resets.On("ConsumeReset", mock.Anything, "used", "anna@example.com", "n3w-Passw0rd").Return(apperrors.ErrInvalidOrExpiredToken)
	resets.On("ConsumeReset", mock.Anything, "good", "anna@example.com", "short").Return(weak)
	e := newResetTestEcho(resets)

	rec := serve(e, http.MethodPost, "/api/auth/reset-password",
		`{"token":"good","email":"anna@example.com","newPassword":"n3w-Passw0rd"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var ok MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ok))
	assert.True(t, ok.Success)
	assert.Equal(t, passwordResetMessage, ok.Message)

	rec = serve(e, http.MethodPost, "/api/auth/reset-password",
		`{"token":"used","email":"anna@example.com","newPassword":"n3w-Passw0rd"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_OR_EXPIRED_TOKEN", decodeError(t, rec).Code)

	rec = serve(e, http.MethodPost, "/api/auth/reset-password",
		`{"token":"good","email":"anna@example.com","newPassword":"short"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
	require.Len(t, resp.Fields, 1)
	assert.Equal(t, "newPassword", resp.Fields[0].Field)

	rec = serve(e, http.MethodPost, "/api/auth/reset-password", `{"email":"anna@example.com"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp = decodeError(t, rec)
	assert.ElementsMatch(t, []string{"token", "newPassword"}, []string{resp.Fields[0].Field, resp.Fields[1].Field})

	resets.AssertNumberOfCalls(t, "ConsumeReset", 3)
}
