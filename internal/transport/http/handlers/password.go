package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hajuenter/usaha-backend/internal/usecase"
)

// PasswordHandler exposes the forgot-password recovery endpoints.
type PasswordHandler struct {
	recovery *usecase.RecoveryService
	logger   *zap.Logger
}

func NewPasswordHandler(recovery *usecase.RecoveryService, logger *zap.Logger) *PasswordHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PasswordHandler{recovery: recovery, logger: logger}
}

var recoveryKnownErrs = []error{
	usecase.ErrUserNotFound,
	usecase.ErrOTPExpired,
	usecase.ErrOTPInvalid,
	usecase.ErrOTPLocked,
	usecase.ErrResetTokenExpired,
	usecase.ErrResetTokenInvalid,
}

func (h *PasswordHandler) logUnknown(op string, err error) {
	var validationErr *usecase.ValidationError
	var rateLimitErr *usecase.RateLimitError
	if errors.As(err, &validationErr) || errors.As(err, &rateLimitErr) {
		return
	}
	for _, known := range recoveryKnownErrs {
		if errors.Is(err, known) {
			return
		}
	}
	h.logger.Error(op+" failed", zap.Error(err))
}

// ForgotPassword issues a fresh one-time code and mails it to the account.
// Existence is disclosed here: an unknown email is a 404, not a generic 200.
func (h *PasswordHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid payload"))
		return
	}

	if err := h.recovery.RequestOTP(c.Request.Context(), req.Email); err != nil {
		h.logUnknown("forgot password", err)
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
			{Err: usecase.ErrOTPDeliveryFailed, Status: http.StatusInternalServerError, Message: "failed to deliver verification code"},
		}, http.StatusInternalServerError, "forgot password error")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "verification code sent to your email"})
}

// VerifyOTP exchanges a valid code for a single-use reset token.
func (h *PasswordHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid payload"))
		return
	}

	resetToken, err := h.recovery.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		h.logUnknown("verify otp", err)
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
			{Err: usecase.ErrOTPExpired, Status: http.StatusUnauthorized, Message: "code expired, request a new one"},
			{Err: usecase.ErrOTPLocked, Status: http.StatusUnauthorized, Message: "too many attempts, code invalidated"},
			{Err: usecase.ErrOTPInvalid, Status: http.StatusUnauthorized, Message: "wrong code"},
		}, http.StatusInternalServerError, "verify otp error")
		return
	}

	c.JSON(http.StatusOK, VerifyOTPResponse{ResetToken: resetToken})
}

// ResetPassword consumes the reset token and installs the new password.
func (h *PasswordHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid payload"))
		return
	}

	if err := h.recovery.ResetPassword(c.Request.Context(), req.Email, req.ResetToken, req.NewPassword); err != nil {
		h.logUnknown("reset password", err)
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
			{Err: usecase.ErrResetTokenExpired, Status: http.StatusUnauthorized, Message: "reset token expired, verify a new code"},
			{Err: usecase.ErrResetTokenInvalid, Status: http.StatusUnauthorized, Message: "invalid reset token"},
		}, http.StatusInternalServerError, "reset password error")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password updated successfully"})
}
