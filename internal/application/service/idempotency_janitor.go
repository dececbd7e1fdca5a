package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sangkips/shundor-pos/internal/domain/repository"
)

// DefaultJanitorInterval is how often expired idempotency keys are purged.
const DefaultJanitorInterval = time.Hour

// IdempotencyJanitor periodically deletes expired idempotency keys.
type IdempotencyJanitor struct {
	repo     repository.IdempotencyRepository
	interval time.Duration
}

// NewIdempotencyJanitor creates a janitor. A non-positive interval selects
// DefaultJanitorInterval.
func NewIdempotencyJanitor(repo repository.IdempotencyRepository, interval time.Duration) *IdempotencyJanitor {
	if interval <= 0 {
		interval = DefaultJanitorInterval
	}
	return &IdempotencyJanitor{repo: repo, interval: interval}
}

// Run purges once immediately and then on every tick until ctx is done.
func (j *IdempotencyJanitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		j.Purge(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Purge deletes expired keys once.
func (j *IdempotencyJanitor) Purge(ctx context.Context) {
	n, err := j.repo.DeleteExpired(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.ErrorContext(ctx, "failed to purge idempotency keys", slog.Any("error", err))
		}
		return
	}
	if n > 0 {
		slog.InfoContext(ctx, "purged expired idempotency keys", slog.Int64("count", n))
	}
}
