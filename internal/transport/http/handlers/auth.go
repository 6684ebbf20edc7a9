package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hajuenter/usaha-backend/internal/usecase"
)

// AuthHandler exposes the login endpoint.
type AuthHandler struct {
	auth   *usecase.AuthService
	logger *zap.Logger
}

func NewAuthHandler(auth *usecase.AuthService, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{auth: auth, logger: logger}
}

// Login authenticates by email and password and returns a bearer token.
// Unknown email and wrong password produce the identical response.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid login payload"))
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		var validationErr *usecase.ValidationError
		if !errors.Is(err, usecase.ErrInvalidCredentials) && !errors.As(err, &validationErr) {
			h.logger.Error("login failed", zap.Error(err))
		}
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid credentials"},
		}, http.StatusInternalServerError, "login error")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  newUserSummary(user),
	})
}
