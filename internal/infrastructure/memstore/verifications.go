// Package memstore keeps verification records and users in process memory.
// Selected with STORE_BACKEND=memory; contents are lost on restart.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/No0oD/Stajh2Test/internal/domain"
)

// VerificationRepo is an in-memory verification store keyed by email.
type VerificationRepo struct {
	mu sync.RWMutex
	m  map[string]domain.VerificationRecord
}

func NewVerificationRepo() *VerificationRepo {
	return &VerificationRepo{m: make(map[string]domain.VerificationRecord)}
}

func (r *VerificationRepo) Put(_ context.Context, v *domain.VerificationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[v.Email] = clone(*v)
	return nil
}

func (r *VerificationRepo) Get(_ context.Context, email string) (*domain.VerificationRecord, error) {
	r.mu.RLock()
	v, ok := r.m[email]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	v = clone(v)
	return &v, nil
}

func (r *VerificationRepo) MarkVerified(_ context.Context, email string, at int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.m[email]
	if !ok {
		return nil
	}
	v.Verified = true
	v.VerifiedAt = &at
	r.m[email] = v
	return nil
}

func (r *VerificationRepo) Delete(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, email)
	return nil
}

func (r *VerificationRepo) QueryExpiredBefore(_ context.Context, before int64) ([]domain.VerificationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.VerificationRecord
	for _, v := range r.m {
		if v.ExpirationTime < before {
			out = append(out, clone(v))
		}
	}
	return out, nil
}

func (r *VerificationRepo) DeleteExpired(_ context.Context, emails []string, before int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range emails {
		if v, ok := r.m[e]; ok && v.ExpirationTime < before {
			delete(r.m, e)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored records.
func (r *VerificationRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.m)
}

func clone(v domain.VerificationRecord) domain.VerificationRecord {
	if v.VerifiedAt != nil {
		at := *v.VerifiedAt
		v.VerifiedAt = &at
	}
	return v
}
