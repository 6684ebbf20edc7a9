package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hajuenter/usaha-backend/internal/core/domain"
	"github.com/hajuenter/usaha-backend/internal/core/port"
	"github.com/hajuenter/usaha-backend/internal/infra/logger"
	"github.com/hajuenter/usaha-backend/internal/infra/security"
	"github.com/hajuenter/usaha-backend/internal/repository"
)

var (
	// ErrUserNotFound indicates the email does not resolve to an account.
	// Recovery deliberately discloses existence, unlike login.
	ErrUserNotFound = errors.New("user not found")
	// ErrOTPExpired indicates the verification code lapsed or was never issued.
	ErrOTPExpired = errors.New("code expired, request a new one")
	// ErrOTPInvalid indicates the supplied verification code does not match.
	ErrOTPInvalid = errors.New("wrong code")
	// ErrOTPLocked indicates the attempt budget was exhausted and the code invalidated.
	ErrOTPLocked = errors.New("too many attempts, code invalidated")
	// ErrOTPDeliveryFailed indicates the code was issued but could not be delivered.
	ErrOTPDeliveryFailed = errors.New("failed to deliver verification code")
	// ErrResetTokenExpired indicates the reset token lapsed or was never issued.
	ErrResetTokenExpired = errors.New("reset token expired, verify a new code")
	// ErrResetTokenInvalid indicates the supplied reset token does not match.
	ErrResetTokenInvalid = errors.New("invalid reset token")
)

const (
	otpLength        = 6
	resetTokenBytes  = 32
	otpMailSubject   = "Password Reset Code"
	otpMailBodyTmpl  = "Your password reset code is %s. It is valid for 5 minutes."
)

// RecoveryService drives the forgot-password flow: OTP issuance, OTP
// verification, and the token-gated password reset. All recovery state lives
// on the user record; expiry is checked lazily, never swept.
type RecoveryService struct {
	users             port.UserRepository
	mailer            port.Mailer
	passwordValidator *security.PasswordValidator
	events            port.EventPublisher
	logger            *zap.Logger
	now               func() time.Time
}

// NewRecoveryService constructs a RecoveryService instance.
func NewRecoveryService(
	users port.UserRepository,
	mailer port.Mailer,
	passwordValidator *security.PasswordValidator,
	events port.EventPublisher,
	log *zap.Logger,
) *RecoveryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RecoveryService{
		users:             users,
		mailer:            mailer,
		passwordValidator: passwordValidator,
		events:            events,
		logger:            log,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *RecoveryService) WithClock(clock func() time.Time) *RecoveryService {
	if clock != nil {
		s.now = clock
	}
	return s
}

// RequestOTP issues a fresh verification code for the account. Ordering is
// fixed: existence, then the 10-minute re-issue gate, then issuance. The new
// code is persisted before delivery is attempted, so a delivery failure
// leaves a valid code behind.
func (s *RecoveryService) RequestOTP(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return NewValidationError("email is required")
	}

	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	now := s.now()
	if user.OTPRequestedAt != nil {
		elapsed := now.Sub(*user.OTPRequestedAt)
		if elapsed < domain.OTPResendWindow {
			wait := int(math.Ceil(domain.OTPResendWindow.Minutes() - elapsed.Minutes()))
			return &RateLimitError{WaitMinutes: wait}
		}
	}

	code, err := security.GenerateOTP(otpLength)
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	expiresAt := now.Add(domain.OTPTTL)
	user.OTP = &code
	user.OTPExpiresAt = &expiresAt
	user.OTPRequestedAt = &now
	user.OTPAttempts = 0
	user.UpdatedAt = now

	if err := s.users.Save(ctx, *user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	if s.events != nil {
		event := domain.PasswordOTPRequestedEvent{
			EventID:           uuid.NewString(),
			UserID:            user.ID,
			RequestedAt:       now,
			ExpiresAt:         expiresAt,
			MaskedDestination: logger.MaskEmail(user.Email),
		}
		if err := s.events.PublishPasswordOTPRequested(ctx, event); err != nil {
			s.logger.Warn("publish otp requested event failed", zap.Error(err))
		}
	}

	body := fmt.Sprintf(otpMailBodyTmpl, code)
	if err := s.mailer.Send(ctx, user.Email, otpMailSubject, body); err != nil {
		// The persisted code stays valid; only delivery failed.
		return fmt.Errorf("%w: %v", ErrOTPDeliveryFailed, err)
	}

	return nil
}

// VerifyOTP checks the supplied code and exchanges it for a reset token.
// The expiry check runs before the match check: an expired code always
// reports expiry, even when the supplied code would have matched.
func (s *RecoveryService) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	var violations []string
	if strings.TrimSpace(email) == "" {
		violations = append(violations, "email is required")
	}
	if strings.TrimSpace(otp) == "" {
		violations = append(violations, "otp is required")
	}
	if len(violations) > 0 {
		return "", NewValidationError(violations...)
	}

	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	now := s.now()
	if user.OTPExpiresAt == nil || now.After(*user.OTPExpiresAt) {
		user.ClearOTP()
		user.UpdatedAt = now
		if err := s.users.Save(ctx, *user); err != nil {
			return "", fmt.Errorf("save user: %w", err)
		}
		return "", ErrOTPExpired
	}

	if user.OTP == nil || *user.OTP != otp {
		user.OTPAttempts++
		locked := user.OTPAttempts >= domain.OTPMaxAttempts
		if locked {
			user.ClearOTP()
		}
		user.UpdatedAt = now
		if err := s.users.Save(ctx, *user); err != nil {
			return "", fmt.Errorf("save user: %w", err)
		}
		if locked {
			return "", ErrOTPLocked
		}
		return "", ErrOTPInvalid
	}

	token, err := security.GenerateSecureToken(resetTokenBytes)
	if err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}

	tokenExpiresAt := now.Add(domain.ResetTokenTTL)
	user.ClearOTP()
	user.ResetToken = &token
	user.ResetTokenExpiresAt = &tokenExpiresAt
	user.UpdatedAt = now

	if err := s.users.Save(ctx, *user); err != nil {
		return "", fmt.Errorf("save user: %w", err)
	}

	return token, nil
}

// ResetPassword consumes the reset token and replaces the password hash.
// Expiry is checked before the token match, so a lapsed token reports expiry
// even when the supplied string matches exactly. The token is single use.
func (s *RecoveryService) ResetPassword(ctx context.Context, email, resetToken, newPassword string) error {
	var violations []string
	if strings.TrimSpace(email) == "" {
		violations = append(violations, "email is required")
	}
	if strings.TrimSpace(resetToken) == "" {
		violations = append(violations, "reset token is required")
	}
	if newPassword == "" {
		violations = append(violations, "new password is required")
	}
	if len(violations) > 0 {
		return NewValidationError(violations...)
	}

	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	now := s.now()
	if user.ResetTokenExpiresAt == nil || now.After(*user.ResetTokenExpiresAt) {
		user.ClearResetToken()
		user.UpdatedAt = now
		if err := s.users.Save(ctx, *user); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
		return ErrResetTokenExpired
	}

	if user.ResetToken == nil || *user.ResetToken != resetToken {
		return ErrResetTokenInvalid
	}

	if ruleErrs := s.passwordValidator.Violations(newPassword); len(ruleErrs) > 0 {
		parts := make([]string, 0, len(ruleErrs))
		for _, err := range ruleErrs {
			parts = append(parts, err.Error())
		}
		return NewValidationError(strings.Join(parts, "; "))
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = hash
	user.ClearResetToken()
	user.UpdatedAt = now

	if err := s.users.Save(ctx, *user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	if s.events != nil {
		event := domain.PasswordChangedEvent{
			EventID:   uuid.NewString(),
			UserID:    user.ID,
			ChangedAt: now,
		}
		if err := s.events.PublishPasswordChanged(ctx, event); err != nil {
			s.logger.Warn("publish password changed event failed", zap.Error(err))
		}
	}

	return nil
}
