package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/123R3N321/FoodTok/internal/model"
	"github.com/123R3N321/FoodTok/internal/repository"
)

func TestWaitlistEnqueue(t *testing.T) {
	f := newFixture(singleTableRestaurant())
	ctx := context.Background()

	entry, err := f.waitlistSvc.Enqueue(ctx, "user_b", testRestaurant, testDate, "19:00", 2)
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if entry.Status != model.WaitlistWaiting {
		t.Errorf("status = %q, want waiting", entry.Status)
	}
	if entry.RequestedTime != "19:00" || entry.RequestedDate != testDate {
		t.Errorf("entry slot = %s %s, want %s 19:00", entry.RequestedDate, entry.RequestedTime, testDate)
	}

	if _, err := f.waitlistSvc.Enqueue(ctx, "", testRestaurant, testDate, "19:00", 2); !errors.Is(err, repository.ErrAuthRequired) {
		t.Errorf("empty user: got %v, want ErrAuthRequired", err)
	}
	if _, err := f.waitlistSvc.Enqueue(ctx, "user_b", testRestaurant, testDate, "19:00", 9); !errors.Is(err, repository.ErrInvalidPartySize) {
		t.Errorf("oversized party: got %v, want ErrInvalidPartySize", err)
	}
}

// Cancelling a hold frees capacity; handling the released event
// promotes the earliest waiting entry into a short-TTL offer hold.
func TestWaitlistPromotionOnRelease(t *testing.T) {
	f := newFixture(singleTableRestaurant())
	ctx := context.Background()

	h, err := f.holdSvc.Create(ctx, "user_a", testRestaurant, testDate, "19:00", 4)
	if err != nil {
		t.Fatalf("create hold: %v", err)
	}
	entry, err := f.waitlistSvc.Enqueue(ctx, "user_b", testRestaurant, testDate, "19:00", 2)
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if err := f.holdSvc.Cancel(ctx, h.ID, "user_a"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	released := f.publisher.releasedEvents()
	if len(released) != 1 {
		t.Fatalf("released events = %d, want 1", len(released))
	}
	if err := f.waitlistSvc.HandleCapacityReleased(ctx, released[0]); err != nil {
		t.Fatalf("handle released: %v", err)
	}

	if got := f.waitlist.status(entry.ID); got != model.WaitlistOffered {
		t.Errorf("entry status = %q, want offered", got)
	}
	offer, err := f.holdSvc.ActiveHold(ctx, "user_b")
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if offer == nil {
		t.Fatal("no offer hold created")
	}
	if offer.WaitlistID != entry.ID {
		t.Errorf("offer.WaitlistID = %q, want %q", offer.WaitlistID, entry.ID)
	}
	if got := offer.ExpiresAt.Sub(offer.CreatedAt); got != 5*time.Minute {
		t.Errorf("offer TTL = %v, want 5m", got)
	}
	if got := f.ledger.reserved(testRestaurant, testDate, "19:00", "tbl_4"); got != 2 {
		t.Errorf("reserved = %d, want 2 for the offer", got)
	}

	offered := f.publisher.offeredEvents()
	if len(offered) != 1 {
		t.Fatalf("offered events = %d, want 1", len(offered))
	}
	if offered[0].WaitlistID != entry.ID || offered[0].HoldID != offer.ID {
		t.Errorf("unexpected offered event %+v", offered[0])
	}
}

// Entries are promoted in arrival order, skipping parties the freed
// capacity cannot seat.
func TestWaitlistPromotionOrderAndFit(t *testing.T) {
	f := newFixture(singleTableRestaurant())
	ctx := context.Background()

	h, err := f.holdSvc.Create(ctx, "user_a", testRestaurant, testDate, "19:00", 2)
	if err != nil {
		t.Fatalf("create hold: %v", err)
	}
	// Oldest entry wants more seats than will free up.
	big, err := f.waitlistSvc.Enqueue(ctx, "user_b", testRestaurant, testDate, "19:00", 4)
	if err != nil {
		t.Fatalf("enqueue big: %v", err)
	}
	f.advance(time.Minute)
	small, err := f.waitlistSvc.Enqueue(ctx, "user_c", testRestaurant, testDate, "19:00", 2)
	if err != nil {
		t.Fatalf("enqueue small: %v", err)
	}

	if err := f.holdSvc.Cancel(ctx, h.ID, "user_a"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	released := f.publisher.releasedEvents()
	if err := f.waitlistSvc.HandleCapacityReleased(ctx, released[len(released)-1]); err != nil {
		t.Fatalf("handle released: %v", err)
	}

	if got := f.waitlist.status(big.ID); got != model.WaitlistWaiting {
		t.Errorf("big entry status = %q, want still waiting", got)
	}
	if got := f.waitlist.status(small.ID); got != model.WaitlistOffered {
		t.Errorf("small entry status = %q, want offered", got)
	}
}

// When the freed seats are re-taken before the event is handled the
// promotion stands down and the entry goes back to waiting.
func TestWaitlistPromotionStandsDownWhenRetaken(t *testing.T) {
	f := newFixture(singleTableRestaurant())
	ctx := context.Background()

	h, err := f.holdSvc.Create(ctx, "user_a", testRestaurant, testDate, "19:00", 4)
	if err != nil {
		t.Fatalf("create hold: %v", err)
	}
	entry, err := f.waitlistSvc.Enqueue(ctx, "user_b", testRestaurant, testDate, "19:00", 4)
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := f.holdSvc.Cancel(ctx, h.ID, "user_a"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	// Another diner grabs the slot before the event lands.
	if _, err := f.holdSvc.Create(ctx, "user_c", testRestaurant, testDate, "19:00", 4); err != nil {
		t.Fatalf("rebook: %v", err)
	}

	released := f.publisher.releasedEvents()
	if err := f.waitlistSvc.HandleCapacityReleased(ctx, released[0]); err != nil {
		t.Fatalf("handle released: %v", err)
	}
	if got := f.waitlist.status(entry.ID); got != model.WaitlistWaiting {
		t.Errorf("entry status = %q, want back to waiting", got)
	}
	if offer, _ := f.holdSvc.ActiveHold(ctx, "user_b"); offer != nil {
		t.Errorf("unexpected offer hold %+v", offer)
	}
}

// An offer hold that lapses returns the entry to the queue.
func TestWaitlistOfferLapseReturnsToWaiting(t *testing.T) {
	f := newFixture(singleTableRestaurant())
	ctx := context.Background()

	h, err := f.holdSvc.Create(ctx, "user_a", testRestaurant, testDate, "19:00", 4)
	if err != nil {
		t.Fatalf("create hold: %v", err)
	}
	entry, err := f.waitlistSvc.Enqueue(ctx, "user_b", testRestaurant, testDate, "19:00", 2)
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := f.holdSvc.Cancel(ctx, h.ID, "user_a"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := f.waitlistSvc.HandleCapacityReleased(ctx, f.publisher.releasedEvents()[0]); err != nil {
		t.Fatalf("handle released: %v", err)
	}

	f.advance(6 * time.Minute)
	if _, err := f.sweeper.Sweep(ctx); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if got := f.waitlist.status(entry.ID); got != model.WaitlistWaiting {
		t.Errorf("entry status = %q, want waiting after lapse", got)
	}
	if got := f.ledger.reserved(testRestaurant, testDate, "19:00", "tbl_4"); got != 0 {
		t.Errorf("reserved = %d, want 0 after offer lapse", got)
	}
}

// Finalizing the offer hold fulfills the entry; cancelling it counts
// as a decline and expires the entry.
func TestWaitlistOfferResolution(t *testing.T) {
	for _, tc := range []struct {
		name       string
		resolve    func(f *fixture, holdID string) error
		wantStatus string
	}{
		{
			name: "finalize fulfills",
			resolve: func(f *fixture, holdID string) error {
				_, err := f.holdSvc.Finalize(context.Background(), holdID, "user_b")
				return err
			},
			wantStatus: model.WaitlistFulfilled,
		},
		{
			name: "cancel declines",
			resolve: func(f *fixture, holdID string) error {
				return f.holdSvc.Cancel(context.Background(), holdID, "user_b")
			},
			wantStatus: model.WaitlistExpired,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(singleTableRestaurant())
			ctx := context.Background()

			h, err := f.holdSvc.Create(ctx, "user_a", testRestaurant, testDate, "19:00", 4)
			if err != nil {
				t.Fatalf("create hold: %v", err)
			}
			entry, err := f.waitlistSvc.Enqueue(ctx, "user_b", testRestaurant, testDate, "19:00", 2)
			if err != nil {
				t.Fatalf("enqueue: %v", err)
			}
			if err := f.holdSvc.Cancel(ctx, h.ID, "user_a"); err != nil {
				t.Fatalf("cancel: %v", err)
			}
			if err := f.waitlistSvc.HandleCapacityReleased(ctx, f.publisher.releasedEvents()[0]); err != nil {
				t.Fatalf("handle released: %v", err)
			}
			offer, err := f.holdSvc.ActiveHold(ctx, "user_b")
			if err != nil || offer == nil {
				t.Fatalf("no offer hold: %v", err)
			}

			if err := tc.resolve(f, offer.ID); err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if got := f.waitlist.status(entry.ID); got != tc.wantStatus {
				t.Errorf("entry status = %q, want %q", got, tc.wantStatus)
			}
		})
	}
}

// A redelivered released event cannot double-promote: the second
// handling finds the entry already offered.
func TestWaitlistDuplicateEventSingleOffer(t *testing.T) {
	f := newFixture(singleTableRestaurant())
	ctx := context.Background()

	h, err := f.holdSvc.Create(ctx, "user_a", testRestaurant, testDate, "19:00", 4)
	if err != nil {
		t.Fatalf("create hold: %v", err)
	}
	if _, err := f.waitlistSvc.Enqueue(ctx, "user_b", testRestaurant, testDate, "19:00", 2); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := f.holdSvc.Cancel(ctx, h.ID, "user_a"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	ev := f.publisher.releasedEvents()[0]
	if err := f.waitlistSvc.HandleCapacityReleased(ctx, ev); err != nil {
		t.Fatalf("first handling: %v", err)
	}
	if err := f.waitlistSvc.HandleCapacityReleased(ctx, ev); err != nil {
		t.Fatalf("second handling: %v", err)
	}
	if got := f.ledger.reserved(testRestaurant, testDate, "19:00", "tbl_4"); got != 2 {
		t.Errorf("reserved = %d, want 2 (one offer only)", got)
	}
	if offered := f.publisher.offeredEvents(); len(offered) != 1 {
		t.Errorf("offered events = %d, want 1", len(offered))
	}
}
