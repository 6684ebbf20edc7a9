package mail

import (
	"context"

	"go.uber.org/zap"

	"github.com/hajuenter/usaha-backend/internal/core/port"
	"github.com/hajuenter/usaha-backend/internal/infra/logger"
)

// LoggingMailer records outbound mail instead of delivering it. Used in
// development environments without an SMTP relay.
type LoggingMailer struct {
	log *zap.Logger
}

// NewLoggingMailer builds a mailer that only logs.
func NewLoggingMailer(log *zap.Logger) *LoggingMailer {
	return &LoggingMailer{log: log}
}

// Send logs the message and reports success.
func (m *LoggingMailer) Send(_ context.Context, to, subject, _ string) error {
	m.log.Info("mail suppressed",
		zap.String("to", logger.MaskEmail(to)),
		zap.String("subject", subject),
	)
	return nil
}

var _ port.Mailer = (*LoggingMailer)(nil)
