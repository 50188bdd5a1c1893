package service

import (
	"context"
	"time"

	"foodsaver/internal/observability"
	"foodsaver/internal/repository"
)

// Sweeper periodically expires overdue available donations so the
// stored data converges even when no report is requested.
type Sweeper struct {
	donations repository.DonationRepository
	interval  time.Duration
	now       func() time.Time
}

// NewSweeper returns a sweeper with the given interval.
func NewSweeper(donations repository.DonationRepository, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		donations: donations,
		interval:  interval,
		now:       time.Now,
	}
}

// RunOnce performs a single sweep and returns how many donations expired.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	expired, err := s.donations.ExpireOverdue(ctx, s.now())
	if err != nil {
		observability.GlobalLogger.Error("expiry sweep failed", "error", err)
		return 0, err
	}
	observability.SweepRuns.Inc()
	if expired > 0 {
		observability.GlobalLogger.Info("expiry sweep", "expired", expired)
	}
	return expired, nil
}

// Run sweeps on the configured interval until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.RunOnce(ctx)
		}
	}
}
