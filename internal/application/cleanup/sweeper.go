// Package cleanup removes expired password-reset codes on a schedule.
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/No0oD/Stajh2Test/internal/domain"
	"github.com/No0oD/Stajh2Test/internal/pkg/metrics"
)

// DefaultInterval is how often Run sweeps when no interval is given.
const DefaultInterval = 24 * time.Hour

// Store is the subset of the verification store the sweeper needs.
type Store interface {
	QueryExpiredBefore(ctx context.Context, before int64) ([]domain.VerificationRecord, error)
	// DeleteExpired deletes each listed record whose expirationTime is still
	// below before and reports how many it removed. A record re-issued since
	// the query is left alone.
	DeleteExpired(ctx context.Context, emails []string, before int64) (int, error)
}

// Sweeper deletes records whose expiration time has passed. It takes no locks;
// the store re-checks expiry on delete.
type Sweeper struct {
	store Store
	now   func() time.Time
}

func NewSweeper(store Store, now func() time.Time) *Sweeper {
	if now == nil {
		now = time.Now
	}
	return &Sweeper{store: store, now: now}
}

// Sweep deletes every record with expirationTime < now and returns how many it removed.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (int, error) {
	start := time.Now()
	defer func() { metrics.SweepDuration.Observe(time.Since(start).Seconds()) }()

	expired, err := s.store.QueryExpiredBefore(ctx, now.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("query expired codes: %w", err)
	}
	if len(expired) == 0 {
		return 0, nil
	}

	emails := make([]string, len(expired))
	for i := range expired {
		emails[i] = expired[i].Email
	}
	n, err := s.store.DeleteExpired(ctx, emails, now.UnixMilli())
	metrics.CodesSwept.Add(float64(n))
	if err != nil {
		return n, fmt.Errorf("delete expired codes: %w", err)
	}

	slog.Info("deleted expired verification codes", "count", n, "skipped", len(emails)-n)
	return n, nil
}

// Run sweeps once immediately and then every interval until ctx is cancelled.
// A failed sweep is logged and retried on the next tick.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	slog.Info("cleanup job started", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.Sweep(ctx, s.now()); err != nil {
			slog.Error("cleanup sweep failed", "err", err)
		}
		select {
		case <-ctx.Done():
			slog.Info("cleanup job stopped")
			return
		case <-ticker.C:
		}
	}
}
