package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hajuenter/usaha-backend/internal/core/domain"
	"github.com/hajuenter/usaha-backend/internal/core/port"
	"github.com/hajuenter/usaha-backend/internal/infra/security"
	"github.com/hajuenter/usaha-backend/internal/repository"
)

// emailRegex accepts the usual local@domain.tld shape.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegistrationService creates new user accounts.
type RegistrationService struct {
	users             port.UserRepository
	passwordValidator *security.PasswordValidator
	events            port.EventPublisher
	logger            *zap.Logger
	now               func() time.Time
}

// NewRegistrationService constructs a RegistrationService instance.
func NewRegistrationService(
	users port.UserRepository,
	passwordValidator *security.PasswordValidator,
	events port.EventPublisher,
	logger *zap.Logger,
) *RegistrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{
		users:             users,
		passwordValidator: passwordValidator,
		events:            events,
		logger:            logger,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *RegistrationService) WithClock(clock func() time.Time) *RegistrationService {
	if clock != nil {
		s.now = clock
	}
	return s
}

// Register validates the input, hashes the password, and persists the user.
// All violations are collected into one ValidationError, checked in the
// order name, email, password; the uniqueness lookup only runs for
// well-formed emails.
func (s *RegistrationService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	normalized := NormalizeEmail(email)

	var violations []string

	if name == "" {
		violations = append(violations, "name is required")
	}

	emailWellFormed := false
	switch {
	case email == "":
		violations = append(violations, "email is required")
	case !emailRegex.MatchString(email):
		violations = append(violations, "email format is invalid")
	default:
		emailWellFormed = true
	}

	if password == "" {
		violations = append(violations, "password is required")
	} else if ruleErrs := s.passwordValidator.Violations(password); len(ruleErrs) > 0 {
		parts := make([]string, 0, len(ruleErrs))
		for _, err := range ruleErrs {
			parts = append(parts, err.Error())
		}
		violations = append(violations, strings.Join(parts, "; "))
	}

	if emailWellFormed {
		if _, err := s.users.GetByEmail(ctx, normalized); err == nil {
			violations = append(violations, "email is already registered")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("lookup user: %w", err)
		}
	}

	if len(violations) > 0 {
		return nil, NewValidationError(violations...)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        normalized,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.events != nil {
		event := domain.UserRegisteredEvent{
			EventID:      uuid.NewString(),
			UserID:       user.ID,
			Name:         user.Name,
			Email:        user.Email,
			RegisteredAt: now,
		}
		if err := s.events.PublishUserRegistered(ctx, event); err != nil {
			s.logger.Warn("publish user registered event failed", zap.Error(err))
		}
	}

	user.PasswordHash = ""
	return &user, nil
}
