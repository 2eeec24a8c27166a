// Package mail provides the registration confirmation mailer. The only
// implementation logs the send instead of talking to a real provider.
package mail

import (
	"context"
	"log/slog"

	"passport/config"
	"passport/internal/domain/service"
)

type loggingMailer struct {
	logger *slog.Logger
	from   string
}

// NewLoggingMailer is the constructor for the log-only registration mailer.
func NewLoggingMailer(cfg *config.Config, logger *slog.Logger) service.RegistrationMailer {
	from := ""
	if cfg != nil && cfg.Mail != nil {
		from = cfg.Mail.FromAddress
	}

	return &loggingMailer{
		logger: logger,
		from:   from,
	}
}

// SendRegistrationEmail records the confirmation send. It never fails.
func (m *loggingMailer) SendRegistrationEmail(ctx context.Context, email string) error {
	m.logger.InfoContext(ctx, "registration confirmation email sent",
		slog.String("from", m.from),
		slog.String("to", email),
	)

	return nil
}
