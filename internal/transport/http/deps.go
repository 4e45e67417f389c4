package http

import (
	"context"

	"github.com/No0oD/Stajh2Test/internal/domain"
)

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// VerificationRepository is the minimal interface the router requires from a verification store.
// Implemented by the dynamo, redisstore and memstore packages.
type VerificationRepository interface {
	Put(ctx context.Context, v *domain.VerificationRecord) error
	Get(ctx context.Context, email string) (*domain.VerificationRecord, error)
	MarkVerified(ctx context.Context, email string, at int64) error
	Delete(ctx context.Context, email string) error
}

// Mailer is the email notifier used to deliver reset codes.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, htmlBody string) error
}
