package service

import (
	"context"
	"errors"
	"testing"

	"github.com/123R3N321/FoodTok/internal/model"
	"github.com/123R3N321/FoodTok/internal/repository"
)

// finalize a fresh hold and return the reservation.
func makeReservation(t *testing.T, f *fixture, userID, slot string, party int) *model.Reservation {
	t.Helper()
	h, err := f.holdSvc.Create(context.Background(), userID, testRestaurant, testDate, slot, party)
	if err != nil {
		t.Fatalf("create hold: %v", err)
	}
	res, err := f.holdSvc.Finalize(context.Background(), h.ID, userID)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	return res
}

func TestReservationGetEnforcesOwnership(t *testing.T) {
	f := newFixture(twoTableRestaurant())
	ctx := context.Background()
	res := makeReservation(t, f, "user_a", "19:00", 2)

	got, err := f.resSvc.Get(ctx, res.ID, "user_a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ConfirmationCode != res.ConfirmationCode {
		t.Errorf("code = %q, want %q", got.ConfirmationCode, res.ConfirmationCode)
	}

	if _, err := f.resSvc.Get(ctx, res.ID, "user_b"); !errors.Is(err, repository.ErrForbidden) {
		t.Errorf("other user: got %v, want ErrForbidden", err)
	}
	if _, err := f.resSvc.Get(ctx, "res_missing", "user_a"); !errors.Is(err, repository.ErrReservationNotFound) {
		t.Errorf("missing: got %v, want ErrReservationNotFound", err)
	}
	if _, err := f.resSvc.Get(ctx, res.ID, ""); !errors.Is(err, repository.ErrAuthRequired) {
		t.Errorf("anonymous: got %v, want ErrAuthRequired", err)
	}
}

func TestReservationList(t *testing.T) {
	f := newFixture(twoTableRestaurant())
	ctx := context.Background()
	makeReservation(t, f, "user_a", "19:00", 2)
	makeReservation(t, f, "user_a", "20:00", 2)
	makeReservation(t, f, "user_b", "18:00", 2)

	list, err := f.resSvc.List(ctx, "user_a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d reservations, want 2", len(list))
	}
	for _, r := range list {
		if r.UserID != "user_a" {
			t.Errorf("listed reservation owned by %q", r.UserID)
		}
	}
}

func TestReservationCancelCreditsLedger(t *testing.T) {
	f := newFixture(twoTableRestaurant())
	ctx := context.Background()
	res := makeReservation(t, f, "user_a", "19:00", 2)

	if got := f.ledger.reserved(testRestaurant, testDate, "19:00", "tbl_2"); got != 2 {
		t.Fatalf("reserved before cancel = %d, want 2", got)
	}
	if err := f.resSvc.Cancel(ctx, res.ID, "user_a"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got := f.ledger.reserved(testRestaurant, testDate, "19:00", "tbl_2"); got != 0 {
		t.Errorf("reserved after cancel = %d, want 0", got)
	}

	evs := f.publisher.releasedEvents()
	last := evs[len(evs)-1]
	if last.Source != "reservation_cancelled" || last.Seats != 2 {
		t.Errorf("unexpected released event %+v", last)
	}

	// Only confirmed reservations are cancellable.
	if err := f.resSvc.Cancel(ctx, res.ID, "user_a"); !errors.Is(err, repository.ErrConflict) {
		t.Errorf("second cancel: got %v, want ErrConflict", err)
	}
	if got := f.ledger.reserved(testRestaurant, testDate, "19:00", "tbl_2"); got != 0 {
		t.Errorf("double cancel moved the ledger: reserved = %d", got)
	}
}

func TestReservationCancelWrongUser(t *testing.T) {
	f := newFixture(twoTableRestaurant())
	ctx := context.Background()
	res := makeReservation(t, f, "user_a", "19:00", 2)

	if err := f.resSvc.Cancel(ctx, res.ID, "user_b"); !errors.Is(err, repository.ErrForbidden) {
		t.Errorf("got %v, want ErrForbidden", err)
	}
	if got, err := f.resSvc.Get(ctx, res.ID, "user_a"); err != nil || got.Status != model.ReservationConfirmed {
		t.Errorf("reservation disturbed: %+v err=%v", got, err)
	}
}
