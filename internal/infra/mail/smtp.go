package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/hajuenter/usaha-backend/internal/core/port"
	"github.com/hajuenter/usaha-backend/internal/infra/config"
	"github.com/hajuenter/usaha-backend/internal/infra/logger"
)

// SMTPMailer delivers transactional mail through a plain SMTP relay.
type SMTPMailer struct {
	cfg config.SMTPSettings
	log *zap.Logger
}

// NewSMTPMailer builds a mailer from SMTP settings.
func NewSMTPMailer(cfg config.SMTPSettings, log *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, log: log}
}

// Send delivers a single message. The context deadline is not propagated into
// the SMTP dial; delivery failures are reported to the caller unwrapped of
// transport detail.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		m.log.Warn("smtp delivery failed",
			zap.String("to", logger.MaskEmail(to)),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return fmt.Errorf("send mail: %w", err)
	}

	return nil
}

var _ port.Mailer = (*SMTPMailer)(nil)
