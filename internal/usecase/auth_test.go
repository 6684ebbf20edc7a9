package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hajuenter/usaha-backend/internal/core/domain"
	"github.com/hajuenter/usaha-backend/internal/infra/config"
	"github.com/hajuenter/usaha-backend/internal/infra/security"
)

func newTestAuthConfig() *config.AppConfig {
	return &config.AppConfig{
		App: config.AppSettings{Name: "usaha-backend", Env: "test"},
		JWT: config.JWTSettings{
			Secret:         "test-secret-please-rotate",
			AccessTokenTTL: 24 * time.Hour,
		},
	}
}

func newStoredUser(t *testing.T, password string) domain.User {
	t.Helper()
	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return domain.User{
		ID:           "7c9a2f1e-0b4d-4f7a-9a61-3f2de1c0aa55",
		Name:         "Budi",
		Email:        "budi@example.com",
		PasswordHash: hash,
	}
}

func TestLoginSuccess(t *testing.T) {
	stored := newStoredUser(t, strongTestPassword)
	repo := newMockUserRepository(stored)
	service := NewAuthService(newTestAuthConfig(), repo)

	token, user, err := service.Login(context.Background(), "Budi@Example.com ", strongTestPassword)
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a signed token")
	}
	if user.PasswordHash != "" {
		t.Fatal("expected password hash to be stripped from the returned user")
	}
	if repo.lastLookupEmail != "budi@example.com" {
		t.Fatalf("expected normalized lookup email, got %q", repo.lastLookupEmail)
	}

	claims, err := service.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("ParseAccessToken returned error: %v", err)
	}
	if claims.UserID != stored.ID {
		t.Fatalf("claims uid mismatch: %q vs %q", claims.UserID, stored.ID)
	}
	if claims.Email != stored.Email {
		t.Fatalf("claims email mismatch: %q vs %q", claims.Email, stored.Email)
	}
}

func TestLoginUnknownEmailAndWrongPasswordShareError(t *testing.T) {
	stored := newStoredUser(t, strongTestPassword)
	repo := newMockUserRepository(stored)
	service := NewAuthService(newTestAuthConfig(), repo)

	_, _, unknownErr := service.Login(context.Background(), "nobody@example.com", strongTestPassword)
	_, _, wrongErr := service.Login(context.Background(), stored.Email, "Wrong!Pass1")

	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownErr)
	}
	if !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("error messages must be indistinguishable: %q vs %q", unknownErr, wrongErr)
	}
}

func TestLoginMissingFields(t *testing.T) {
	service := NewAuthService(newTestAuthConfig(), newMockUserRepository())

	_, _, err := service.Login(context.Background(), "", "")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := []string{"email is required", "password is required"}
	if len(validationErr.Violations) != len(want) {
		t.Fatalf("unexpected violations: %v", validationErr.Violations)
	}
	for i, violation := range want {
		if validationErr.Violations[i] != violation {
			t.Fatalf("violation %d: expected %q, got %q", i, violation, validationErr.Violations[i])
		}
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	stored := newStoredUser(t, strongTestPassword)
	service := NewAuthService(newTestAuthConfig(), newMockUserRepository(stored)).
		WithClock(fixedClock(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))

	token, err := service.IssueToken(stored)
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}

	if _, err := service.ParseAccessToken(token); !errors.Is(err, ErrExpiredAccessToken) {
		t.Fatalf("expected ErrExpiredAccessToken, got %v", err)
	}
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	service := NewAuthService(newTestAuthConfig(), newMockUserRepository())

	if _, err := service.ParseAccessToken("not.a.jwt"); !errors.Is(err, ErrInvalidAccessToken) {
		t.Fatalf("expected ErrInvalidAccessToken, got %v", err)
	}
}

func TestParseAccessTokenRejectsForeignSecret(t *testing.T) {
	stored := newStoredUser(t, strongTestPassword)
	issuerCfg := newTestAuthConfig()
	issuer := NewAuthService(issuerCfg, newMockUserRepository(stored))

	token, err := issuer.IssueToken(stored)
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}

	verifierCfg := newTestAuthConfig()
	verifierCfg.JWT.Secret = "a-different-secret"
	verifier := NewAuthService(verifierCfg, newMockUserRepository(stored))

	if _, err := verifier.ParseAccessToken(token); !errors.Is(err, ErrInvalidAccessToken) {
		t.Fatalf("expected ErrInvalidAccessToken, got %v", err)
	}
}
