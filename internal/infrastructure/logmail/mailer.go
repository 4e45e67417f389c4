// Package logmail is a notifier for local development. It logs each message
// instead of delivering it.
package logmail

import (
	"context"
	"log/slog"
)

type Mailer struct {
	logger *slog.Logger
}

func NewMailer(logger *slog.Logger) *Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mailer{logger: logger}
}

func (m *Mailer) SendEmail(ctx context.Context, to, subject, htmlBody string) error {
	m.logger.InfoContext(ctx, "email not delivered (log provider)",
		"to", to, "subject", subject, "body_bytes", len(htmlBody))
	return nil
}
