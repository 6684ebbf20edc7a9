package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hajuenter/usaha-backend/internal/core/domain"
	"github.com/hajuenter/usaha-backend/internal/core/port"
	"github.com/hajuenter/usaha-backend/internal/infra/config"
	"github.com/hajuenter/usaha-backend/internal/infra/security"
	"github.com/hajuenter/usaha-backend/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the provided email or password are incorrect.
	// Deliberately shared between the unknown-email and wrong-password paths.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidAccessToken indicates the provided access token is malformed or signature validation failed.
	ErrInvalidAccessToken = errors.New("invalid access token")
	// ErrExpiredAccessToken indicates the provided access token has expired.
	ErrExpiredAccessToken = errors.New("access token expired")
)

// AccessTokenClaims carries the authenticated identity inside a JWT.
type AccessTokenClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService coordinates the login flow and bearer token issuance.
type AuthService struct {
	cfg   *config.AppConfig
	users port.UserRepository
	now   func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(cfg *config.AppConfig, users port.UserRepository) *AuthService {
	return &AuthService{
		cfg:   cfg,
		users: users,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *AuthService) WithClock(clock func() time.Time) *AuthService {
	if clock != nil {
		s.now = clock
	}
	return s
}

// Login validates credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	var violations []string
	if strings.TrimSpace(email) == "" {
		violations = append(violations, "email is required")
	}
	if password == "" {
		violations = append(violations, "password is required")
	}
	if len(violations) > 0 {
		return "", domain.User{}, NewValidationError(violations...)
	}

	normalized := NormalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", domain.User{}, ErrInvalidCredentials
		}
		return "", domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return "", domain.User{}, ErrInvalidCredentials
	}

	token, err := s.IssueToken(*user)
	if err != nil {
		return "", domain.User{}, err
	}

	sanitized := *user
	sanitized.PasswordHash = ""

	return token, sanitized, nil
}

// IssueToken signs a JWT access token for the authenticated user.
func (s *AuthService) IssueToken(user domain.User) (string, error) {
	if user.ID == "" {
		return "", fmt.Errorf("user id is required")
	}
	if s.cfg.JWT.Secret == "" {
		return "", fmt.Errorf("jwt secret is not configured")
	}

	now := s.now()
	ttl := s.cfg.JWT.AccessTokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	claims := AccessTokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.cfg.App.Name,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ParseAccessToken validates the JWT access token and returns its claims.
func (s *AuthService) ParseAccessToken(token string) (*AccessTokenClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("access token is required")
	}

	claims := &AccessTokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWT.Secret), nil
	}, jwt.WithIssuer(s.cfg.App.Name))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredAccessToken
		}
		return nil, ErrInvalidAccessToken
	}

	if parsed == nil || !parsed.Valid {
		return nil, ErrInvalidAccessToken
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return nil, ErrInvalidAccessToken
	}

	return claims, nil
}

// NormalizeEmail returns the canonical lookup form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
