package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/No0oD/Stajh2Test/internal/domain"
	"github.com/No0oD/Stajh2Test/internal/pkg/id"
	"github.com/No0oD/Stajh2Test/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the user persistence the account service requires.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// VerificationStore is the part of the verification store that gates and
// consumes a password reset.
type VerificationStore interface {
	Get(ctx context.Context, email string) (*domain.VerificationRecord, error)
	Delete(ctx context.Context, email string) error
}

type ResetPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req LoginRequest) (*domain.User, error)
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}

type ServiceDeps struct {
	UserRepo         UserStore
	VerificationRepo VerificationStore
	Now              func() time.Time
	BcryptCost       int
}

type service struct {
	users        UserStore
	verification VerificationStore
	now          func() time.Time
	cost         int
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		users:        deps.UserRepo,
		verification: deps.VerificationRepo,
		now:          deps.Now,
		cost:         deps.BcryptCost,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.cost == 0 {
		s.cost = bcrypt.DefaultCost
	}
	return s
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	req.Email = domain.NormalizeEmail(req.Email)
	if err := validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrValidation)
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	u := &domain.User{
		UserID:       id.At(now),
		Login:        req.Login,
		Email:        req.Email,
		AppCode:      req.AppCode,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Put(ctx, u); err != nil {
		return nil, fmt.Errorf("%w: store user: %v", domain.ErrDependency, err)
	}
	slog.Info("user registered", "user_id", u.UserID, "email", u.Email)
	return u, nil
}

// Login checks the password against the stored hash. No session is created.
func (s *service) Login(ctx context.Context, req LoginRequest) (*domain.User, error) {
	req.Email = domain.NormalizeEmail(req.Email)
	if err := validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrValidation)
	}

	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrBadCredentials
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		slog.Info("login rejected", "user_id", u.UserID)
		return nil, domain.ErrBadCredentials
	}
	slog.Info("user logged in", "user_id", u.UserID)
	return u, nil
}

// ResetPassword sets a new password for an email whose reset code was verified,
// then deletes the verification record so the code cannot be reused.
func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	req.Email = domain.NormalizeEmail(req.Email)
	if err := validate.Struct(&req); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), domain.ErrValidation)
	}

	rec, err := s.verification.Get(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotVerified
		}
		return fmt.Errorf("%w: %v", domain.ErrStoreFailed, err)
	}
	if !rec.Verified {
		return domain.ErrNotVerified
	}

	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, u.UserID, string(hash)); err != nil {
		return fmt.Errorf("%w: update password: %v", domain.ErrDependency, err)
	}

	if err := s.verification.Delete(ctx, req.Email); err != nil {
		slog.Warn("failed to delete verification record after password reset", "email", req.Email, "err", err)
	}
	slog.Info("password reset", "user_id", u.UserID)
	return nil
}
