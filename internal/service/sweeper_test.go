package service

import (
	"context"
	"testing"
	"time"

	"github.com/123R3N321/FoodTok/internal/model"
)

func TestSweepExpiresLapsedHolds(t *testing.T) {
	f := newFixture(twoTableRestaurant())
	ctx := context.Background()

	h1, err := f.holdSvc.Create(ctx, "user_a", testRestaurant, testDate, "19:00", 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	f.advance(5 * time.Minute)
	h2, err := f.holdSvc.Create(ctx, "user_b", testRestaurant, testDate, "19:30", 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Only the first hold has lapsed at +11m.
	f.advance(6 * time.Minute)
	n, err := f.sweeper.Sweep(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if n != 1 {
		t.Fatalf("expired %d holds, want 1", n)
	}
	if got := f.holds.status(h1.ID); got != model.HoldExpired {
		t.Errorf("h1 status = %q, want expired", got)
	}
	if got := f.holds.status(h2.ID); got != model.HoldActive {
		t.Errorf("h2 status = %q, want still active", got)
	}
	if got := f.ledger.reserved(testRestaurant, testDate, "19:00", "tbl_2"); got != 0 {
		t.Errorf("h1 capacity not credited: reserved = %d", got)
	}
	if got := f.ledger.reserved(testRestaurant, testDate, "19:30", "tbl_2"); got != 2 {
		t.Errorf("h2 capacity disturbed: reserved = %d, want 2", got)
	}
}

// Sweeping the same lapsed hold twice credits the ledger exactly once.
func TestSweepIdempotent(t *testing.T) {
	f := newFixture(twoTableRestaurant())
	ctx := context.Background()

	if _, err := f.holdSvc.Create(ctx, "user_a", testRestaurant, testDate, "19:00", 2); err != nil {
		t.Fatalf("create: %v", err)
	}
	f.advance(11 * time.Minute)

	n, err := f.sweeper.Sweep(ctx)
	if err != nil || n != 1 {
		t.Fatalf("first sweep: n=%d err=%v, want 1/nil", n, err)
	}
	n, err = f.sweeper.Sweep(ctx)
	if err != nil || n != 0 {
		t.Fatalf("second sweep: n=%d err=%v, want 0/nil", n, err)
	}
	if got := f.ledger.reserved(testRestaurant, testDate, "19:00", "tbl_2"); got != 0 {
		t.Errorf("reserved = %d, want 0", got)
	}
	if evs := f.publisher.releasedEvents(); len(evs) != 1 {
		t.Errorf("released events = %d, want 1", len(evs))
	}
}

// A sweep racing a lazy expiry on the same hold still credits once:
// whichever path wins the transition performs the release.
func TestSweepRacesLazyExpiry(t *testing.T) {
	f := newFixture(twoTableRestaurant())
	ctx := context.Background()

	h, err := f.holdSvc.Create(ctx, "user_a", testRestaurant, testDate, "19:00", 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	f.advance(11 * time.Minute)

	// Lazy path first, then the sweep sees a hold already expired.
	if _, err := f.holdSvc.ActiveHold(ctx, "user_a"); err != nil {
		t.Fatalf("active: %v", err)
	}
	n, err := f.sweeper.Sweep(ctx)
	if err != nil || n != 0 {
		t.Fatalf("sweep after lazy expiry: n=%d err=%v, want 0/nil", n, err)
	}
	if got := f.holds.status(h.ID); got != model.HoldExpired {
		t.Errorf("status = %q, want expired", got)
	}
	if got := f.ledger.reserved(testRestaurant, testDate, "19:00", "tbl_2"); got != 0 {
		t.Errorf("reserved = %d, want 0", got)
	}
}
