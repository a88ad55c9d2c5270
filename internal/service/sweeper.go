package service

import (
	"context"
	"log"
	"time"
)

// Sweeper is the active half of hold expiry: a periodic scan that
// reclaims capacity from lapsed holds. The lazy half lives on every
// hold read in HoldService. Both funnel through ExpireIfLapsed, whose
// conditional transition makes the sweep idempotent: a hold already
// expired by another instance or by a lazy read is a no-op here.
type Sweeper struct {
	holds    HoldStore
	holdSvc  *HoldService
	interval time.Duration
	clock    func() time.Time
}

// NewSweeper constructs a Sweeper that scans at the given interval.
func NewSweeper(holds HoldStore, holdSvc *HoldService, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Sweeper{
		holds:    holds,
		holdSvc:  holdSvc,
		interval: interval,
		clock:    func() time.Time { return time.Now().UTC() },
	}
}

// Run sweeps on a ticker until the context is cancelled. Intended to
// run as a background goroutine per instance; concurrent sweeps from
// multiple instances are safe.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := s.Sweep(ctx); err != nil {
				log.Printf("sweeper: sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("sweeper: expired %d holds", n)
			}
		}
	}
}

// Sweep expires every active hold whose TTL elapsed and returns how
// many this call actually transitioned.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	now := s.clock()
	lapsed, err := s.holds.ExpiredActive(ctx, now)
	if err != nil {
		return 0, err
	}
	expired := 0
	for i := range lapsed {
		won, err := s.holdSvc.ExpireIfLapsed(ctx, &lapsed[i], now)
		if err != nil {
			return expired, err
		}
		if won {
			expired++
		}
	}
	return expired, nil
}
