package sweeper

import (
	"context"
	"time"

	"zattar/internal/services"
	"zattar/pkg/logger"
)

// Sweeper periodically finalizes safe deals whose protection window has
// lapsed. Each tick is independent; a failed tick is logged and the next
// one proceeds as usual.
type Sweeper struct {
	deals    *services.DealService
	log      *logger.Logger
	interval time.Duration
}

func New(deals *services.DealService, log *logger.Logger, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Sweeper{
		deals:    deals,
		log:      log,
		interval: interval,
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval. The first
// sweep happens immediately so restarts do not delay overdue finalization.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			s.log.Infof("deal sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	n, err := s.deals.SweepExpired(ctx)
	if err != nil {
		s.log.Errorf("deal sweep failed: %v", err)
		return
	}
	if n > 0 {
		s.log.Infof("deal sweep finalized %d expired deals", n)
	}
}
