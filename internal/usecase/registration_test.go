package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hajuenter/usaha-backend/internal/core/domain"
	"github.com/hajuenter/usaha-backend/internal/infra/security"
)

func newTestPasswordValidator() *security.PasswordValidator {
	return security.NewPasswordValidator(
		security.MinLengthRule(8),
		security.RequireLetterRule(),
		security.RequireDigitRule(),
		security.RequireSymbolRule(),
	)
}

func TestRegisterSuccess(t *testing.T) {
	repo := newMockUserRepository()
	events := &mockEventPublisher{}
	service := NewRegistrationService(repo, newTestPasswordValidator(), events, nil).
		WithClock(fixedClock(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)))

	user, err := service.Register(context.Background(), "Budi Santoso", "Budi@Example.com", strongTestPassword)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if user.Email != "budi@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.PasswordHash != "" {
		t.Fatal("expected password hash to be stripped from the returned user")
	}
	if repo.createCalls != 1 {
		t.Fatalf("expected one create call, got %d", repo.createCalls)
	}
	if repo.createdUser.PasswordHash == "" || repo.createdUser.PasswordHash == strongTestPassword {
		t.Fatal("expected persisted password to be hashed")
	}
	if events.registeredCalls != 1 {
		t.Fatalf("expected one registered event, got %d", events.registeredCalls)
	}
	if events.lastRegistered.UserID != user.ID {
		t.Fatalf("event user id mismatch: %q vs %q", events.lastRegistered.UserID, user.ID)
	}
}

func TestRegisterCollectsViolationsInOrder(t *testing.T) {
	repo := newMockUserRepository()
	service := NewRegistrationService(repo, newTestPasswordValidator(), nil, nil)

	_, err := service.Register(context.Background(), "", "", "")
	if err == nil {
		t.Fatal("expected validation error")
	}

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}

	want := []string{"name is required", "email is required", "password is required"}
	if len(validationErr.Violations) != len(want) {
		t.Fatalf("expected %d violations, got %v", len(want), validationErr.Violations)
	}
	for i, violation := range want {
		if validationErr.Violations[i] != violation {
			t.Fatalf("violation %d: expected %q, got %q", i, violation, validationErr.Violations[i])
		}
	}
	if repo.getByEmailCalls != 0 {
		t.Fatalf("uniqueness lookup must not run for empty email, got %d calls", repo.getByEmailCalls)
	}
	if repo.createCalls != 0 {
		t.Fatal("create must not run on validation failure")
	}
}

func TestRegisterMalformedEmailSkipsUniquenessLookup(t *testing.T) {
	repo := newMockUserRepository()
	service := NewRegistrationService(repo, newTestPasswordValidator(), nil, nil)

	_, err := service.Register(context.Background(), "Budi", "not-an-email", strongTestPassword)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(validationErr.Violations) != 1 || validationErr.Violations[0] != "email format is invalid" {
		t.Fatalf("unexpected violations: %v", validationErr.Violations)
	}
	if repo.getByEmailCalls != 0 {
		t.Fatalf("uniqueness lookup must not run for malformed email, got %d calls", repo.getByEmailCalls)
	}
}

func TestRegisterWeakPasswordReportsComposite(t *testing.T) {
	repo := newMockUserRepository()
	service := NewRegistrationService(repo, newTestPasswordValidator(), nil, nil)

	_, err := service.Register(context.Background(), "Budi", "budi@example.com", "short")
	if err == nil {
		t.Fatal("expected validation error")
	}

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(validationErr.Violations) != 1 {
		t.Fatalf("policy failures must be one composite violation, got %v", validationErr.Violations)
	}
	composite := validationErr.Violations[0]
	for _, fragment := range []string{"8 characters", "digit", "symbol"} {
		if !strings.Contains(composite, fragment) {
			t.Fatalf("expected composite %q to mention %q", composite, fragment)
		}
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	existing := domain.User{ID: "user-1", Name: "Budi", Email: "budi@example.com"}
	repo := newMockUserRepository(existing)
	service := NewRegistrationService(repo, newTestPasswordValidator(), nil, nil)

	_, err := service.Register(context.Background(), "Budi", "budi@example.com", strongTestPassword)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(validationErr.Violations) != 1 || validationErr.Violations[0] != "email is already registered" {
		t.Fatalf("unexpected violations: %v", validationErr.Violations)
	}
}

func TestRegisterPublishFailureDoesNotFailRegistration(t *testing.T) {
	repo := newMockUserRepository()
	events := &mockEventPublisher{publishErr: errors.New("broker down")}
	service := NewRegistrationService(repo, newTestPasswordValidator(), events, nil)

	if _, err := service.Register(context.Background(), "Budi", "budi@example.com", strongTestPassword); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if repo.createCalls != 1 {
		t.Fatalf("expected one create call, got %d", repo.createCalls)
	}
}
