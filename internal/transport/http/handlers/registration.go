package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/hajuenter/usaha-backend/internal/usecase"
)

// RegistrationHandler exposes the account registration endpoint.
type RegistrationHandler struct {
	registration *usecase.RegistrationService
	logger       *zap.Logger
}

func NewRegistrationHandler(registration *usecase.RegistrationService, logger *zap.Logger) *RegistrationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationHandler{registration: registration, logger: logger}
}

// Register creates a new account from the supplied name, email, and password.
// Every violated rule is reported in one joined message.
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}

	user, err := h.registration.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		// Insert race on the unique email index maps to the same uniqueness
		// message as the pre-insert lookup.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "email is already registered"))
			return
		}

		var validationErr *usecase.ValidationError
		if !errors.As(err, &validationErr) {
			h.logger.Error("register failed", zap.Error(err))
		}
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "register error")
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{User: newUserSummary(*user)})
}
