package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hajuenter/usaha-backend/internal/usecase"
)

// ErrorCase maps a sentinel error to an HTTP status code and response message.
type ErrorCase struct {
	Err     error
	Status  int
	Message string
}

// RespondWithMappedError resolves the provided error against the shared
// taxonomy: validation failures turn into 400 with all violations joined,
// rate limits into 429 with a Retry-After header, then the supplied sentinel
// cases, then the generic fallback. Nothing internal leaks to the caller.
func RespondWithMappedError(c *gin.Context, err error, cases []ErrorCase, fallbackStatus int, fallbackMessage string) {
	if err == nil {
		c.Status(http.StatusOK)
		return
	}

	var validationErr *usecase.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, validationErr.Error()))
		return
	}

	var rateLimitErr *usecase.RateLimitError
	if errors.As(err, &rateLimitErr) {
		c.Header("Retry-After", strconv.Itoa(rateLimitErr.WaitMinutes*60))
		c.JSON(http.StatusTooManyRequests, NewErrorResponse(c, rateLimitErr.Error()))
		return
	}

	for _, cs := range cases {
		if cs.Err == nil {
			continue
		}
		if errors.Is(err, cs.Err) {
			c.JSON(cs.Status, NewErrorResponse(c, cs.Message))
			return
		}
	}

	c.JSON(fallbackStatus, NewErrorResponse(c, fallbackMessage))
}
