package usecase

import (
	"fmt"
	"strings"
)

// ValidationError aggregates caller input violations into a single error.
// Violations keep the order in which the checks ran.
type ValidationError struct {
	Violations []string
}

// Error joins all violations for display.
func (e *ValidationError) Error() string {
	if e == nil || len(e.Violations) == 0 {
		return "validation failed"
	}
	return strings.Join(e.Violations, ", ")
}

// NewValidationError builds a ValidationError from the supplied violations.
func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// RateLimitError indicates an action was attempted before its gate elapsed.
type RateLimitError struct {
	WaitMinutes int
}

// Error reports the remaining whole minutes to wait.
func (e *RateLimitError) Error() string {
	if e == nil {
		return "rate limit exceeded"
	}
	return fmt.Sprintf("please wait %d more minutes before requesting a new code", e.WaitMinutes)
}
