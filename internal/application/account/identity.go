package account

import (
	"context"
	"errors"

	"github.com/No0oD/Stajh2Test/internal/domain"
)

// IdentityLookup answers "is an account registered for this email" from the user store.
type IdentityLookup struct {
	users interface {
		GetByEmail(ctx context.Context, email string) (*domain.User, error)
	}
}

func NewIdentityLookup(users UserStore) *IdentityLookup {
	return &IdentityLookup{users: users}
}

func (l *IdentityLookup) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := l.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
