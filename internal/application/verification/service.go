package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/No0oD/Stajh2Test/internal/domain"
	"github.com/No0oD/Stajh2Test/internal/pkg/code"
	"github.com/No0oD/Stajh2Test/internal/pkg/metrics"
)

// DefaultCodeTTL is how long an issued code stays valid.
const DefaultCodeTTL = 10 * time.Minute

// Store is the subset of the verification store used by issue and verify.
type Store interface {
	Put(ctx context.Context, rec *domain.VerificationRecord) error
	Get(ctx context.Context, email string) (*domain.VerificationRecord, error)
	// MarkVerified sets verified=true on an existing record. A missing record is a no-op.
	MarkVerified(ctx context.Context, email string, at int64) error
}

// IdentityLookup answers whether an account is registered for an email.
type IdentityLookup interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// Notifier delivers an HTML email.
type Notifier interface {
	SendEmail(ctx context.Context, to, subject, htmlBody string) error
}

type Service interface {
	Issue(ctx context.Context, email string) error
	Verify(ctx context.Context, email, submittedCode string) error
}

type ServiceDeps struct {
	Store    Store
	Identity IdentityLookup
	Notifier Notifier
	Generate code.Generator   // defaults to code.New
	Now      func() time.Time // defaults to time.Now
	CodeTTL  time.Duration    // defaults to DefaultCodeTTL
}

type service struct {
	store    Store
	identity IdentityLookup
	notifier Notifier
	generate code.Generator
	now      func() time.Time
	ttl      time.Duration
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		store:    deps.Store,
		identity: deps.Identity,
		notifier: deps.Notifier,
		generate: deps.Generate,
		now:      deps.Now,
		ttl:      deps.CodeTTL,
	}
	if s.generate == nil {
		s.generate = code.New
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.ttl <= 0 {
		s.ttl = DefaultCodeTTL
	}
	return s
}

// Issue stores a fresh code for email and mails it. The code itself is never returned.
// When the email cannot be delivered the stored record is kept.
func (s *service) Issue(ctx context.Context, email string) (err error) {
	defer func() { metrics.CodesIssued.WithLabelValues(resultOf(err)).Inc() }()

	email = domain.NormalizeEmail(email)
	if email == "" {
		return fmt.Errorf("email is required: %w", domain.ErrValidation)
	}

	exists, err := s.identity.ExistsByEmail(ctx, email)
	if err != nil {
		slog.Error("identity lookup failed", "email", email, "err", err)
		return fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}
	if !exists {
		slog.Info("no account for reset request", "email", email)
		return domain.ErrUserNotFound
	}

	c, err := s.generate()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreFailed, err)
	}

	now := s.now()
	rec := &domain.VerificationRecord{
		Email:          email,
		Code:           c,
		ExpirationTime: now.Add(s.ttl).UnixMilli(),
		Verified:       false,
		CreatedAt:      now.UnixMilli(),
	}
	if err := s.store.Put(ctx, rec); err != nil {
		slog.Error("failed to store verification code", "email", email, "err", err)
		return fmt.Errorf("%w: %v", domain.ErrStoreFailed, err)
	}

	body, err := renderCodeEmail(c, s.ttl)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSendFailed, err)
	}
	if err := s.notifier.SendEmail(ctx, email, CodeEmailSubject, body); err != nil {
		slog.Error("failed to send verification email", "email", email, "err", err)
		return fmt.Errorf("%w: %v", domain.ErrSendFailed, err)
	}

	slog.Info("verification code issued", "email", email, "expires_at", rec.ExpirationTime)
	return nil
}

// Verify checks submittedCode against the stored record and marks it verified.
// Expiry is checked before the code so an expired record never verifies.
func (s *service) Verify(ctx context.Context, email, submittedCode string) (err error) {
	defer func() { metrics.CodesVerified.WithLabelValues(resultOf(err)).Inc() }()

	email = domain.NormalizeEmail(email)
	if email == "" || submittedCode == "" {
		return fmt.Errorf("email and code are required: %w", domain.ErrValidation)
	}

	rec, err := s.store.Get(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrCodeNotFound
		}
		slog.Error("failed to read verification code", "email", email, "err", err)
		return fmt.Errorf("%w: %v", domain.ErrStoreFailed, err)
	}

	now := s.now()
	if rec.ExpiredAt(now) {
		slog.Info("verification code expired", "email", email)
		return domain.ErrCodeExpired
	}
	if rec.Code != submittedCode {
		slog.Info("verification code mismatch", "email", email)
		return domain.ErrCodeMismatch
	}

	if err := s.store.MarkVerified(ctx, email, now.UnixMilli()); err != nil {
		slog.Error("failed to mark code verified", "email", email, "err", err)
		return fmt.Errorf("%w: %v", domain.ErrStoreFailed, err)
	}
	slog.Info("verification code accepted", "email", email)
	return nil
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, domain.ErrValidation):
		return metrics.ResultInvalid
	case errors.Is(err, domain.ErrNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, domain.ErrExpired):
		return metrics.ResultExpired
	case errors.Is(err, domain.ErrMismatch):
		return metrics.ResultMismatch
	default:
		return metrics.ResultError
	}
}
