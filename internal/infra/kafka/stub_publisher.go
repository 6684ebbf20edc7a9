package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hajuenter/usaha-backend/internal/core/domain"
	"github.com/hajuenter/usaha-backend/internal/core/port"
	"github.com/hajuenter/usaha-backend/internal/infra/logger"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, userID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("user_id", userID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs shop.user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	payload := map[string]any{
		"user_id":       event.UserID,
		"name":          event.Name,
		"email":         logger.MaskEmail(event.Email),
		"registered_at": event.RegisteredAt,
	}
	p.logEvent("user.registered", event.UserID, event.RegisteredAt, payload)
	return nil
}

// PublishPasswordOTPRequested logs shop.user.password.otp_requested events.
func (p *StubPublisher) PublishPasswordOTPRequested(_ context.Context, event domain.PasswordOTPRequestedEvent) error {
	payload := map[string]any{
		"user_id":            event.UserID,
		"requested_at":       event.RequestedAt,
		"expires_at":         event.ExpiresAt,
		"masked_destination": event.MaskedDestination,
	}
	p.logEvent("user.password.otp_requested", event.UserID, event.RequestedAt, payload)
	return nil
}

// PublishPasswordChanged logs shop.user.password.changed events.
func (p *StubPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	payload := map[string]any{
		"user_id":    event.UserID,
		"changed_at": event.ChangedAt,
	}
	p.logEvent("user.password.changed", event.UserID, event.ChangedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
