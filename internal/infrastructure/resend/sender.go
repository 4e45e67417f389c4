package resend

import (
	"context"
	"fmt"

	"github.com/No0oD/Stajh2Test/internal/config"
	"github.com/resend/resend-go/v2"
)

type emailsAPI interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Sender delivers email through the Resend HTTP API.
type Sender struct {
	emails emailsAPI
	from   string
}

func NewSender(cfg *config.Config) *Sender {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &Sender{
		emails: client.Emails,
		from:   fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailUser),
	}
}

func (s *Sender) SendEmail(ctx context.Context, to, subject, htmlBody string) error {
	_, err := s.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    htmlBody,
	})
	if err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	return nil
}
