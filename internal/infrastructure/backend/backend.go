// Package backend selects the store and mail implementations named in config.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/No0oD/Stajh2Test/internal/config"
	"github.com/No0oD/Stajh2Test/internal/domain"
	"github.com/No0oD/Stajh2Test/internal/infrastructure/dynamo"
	"github.com/No0oD/Stajh2Test/internal/infrastructure/logmail"
	"github.com/No0oD/Stajh2Test/internal/infrastructure/memstore"
	"github.com/No0oD/Stajh2Test/internal/infrastructure/redisstore"
	"github.com/No0oD/Stajh2Test/internal/infrastructure/resend"
	"github.com/No0oD/Stajh2Test/internal/infrastructure/smtp"
)

// VerificationStore is everything the API and the sweeper need from a verification store.
type VerificationStore interface {
	Put(ctx context.Context, v *domain.VerificationRecord) error
	Get(ctx context.Context, email string) (*domain.VerificationRecord, error)
	MarkVerified(ctx context.Context, email string, at int64) error
	Delete(ctx context.Context, email string) error
	QueryExpiredBefore(ctx context.Context, before int64) ([]domain.VerificationRecord, error)
	DeleteExpired(ctx context.Context, emails []string, before int64) (int, error)
}

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type Stores struct {
	Verifications VerificationStore
	Users         UserStore
	close         func() error
}

func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open connects the backend selected by cfg.StoreBackend.
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.StoreBackend {
	case "dynamo":
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		dynamo.Bootstrap(ctx, client, cfg.DynamoTables)
		return &Stores{
			Verifications: dynamo.NewVerificationRepo(client, cfg.DynamoTables.VerificationCodes),
			Users:         dynamo.NewUserRepo(client, cfg.DynamoTables.Users),
		}, nil
	case "redis":
		client, err := redisstore.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Verifications: redisstore.NewVerificationRepo(client),
			Users:         redisstore.NewUserRepo(client),
			close:         client.Close,
		}, nil
	case "memory":
		slog.Warn("using in-memory store, data is lost on restart")
		return &Stores{
			Verifications: memstore.NewVerificationRepo(),
			Users:         memstore.NewUserRepo(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}

// Mailer is the notifier contract shared by every mail provider.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, htmlBody string) error
}

// NewMailer builds the notifier selected by cfg.MailProvider.
func NewMailer(cfg *config.Config, logger *slog.Logger) (Mailer, error) {
	if cfg.UsesPlaceholderMailCredentials() && cfg.MailProvider != "log" {
		slog.Warn("EMAIL_USER or EMAIL_PASS not set, using placeholder credentials; emails will fail to send")
	}
	switch cfg.MailProvider {
	case "smtp":
		return smtp.NewMailer(cfg), nil
	case "resend":
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("MAIL_PROVIDER=resend requires RESEND_API_KEY")
		}
		return resend.NewSender(cfg), nil
	case "log":
		return logmail.NewMailer(logger), nil
	default:
		return nil, fmt.Errorf("unknown MAIL_PROVIDER %q", cfg.MailProvider)
	}
}
