// Package service implements the table-hold and availability engine:
// hours resolution, availability calculation, hold lifecycle, expiry
// sweeping and waitlist escalation. Services depend on narrow store
// interfaces satisfied by the repository layer, so the engine's
// invariants can be exercised against in-memory stores in tests.
package service

import (
	"context"
	"time"

	"github.com/123R3N321/FoodTok/internal/model"
	"github.com/123R3N321/FoodTok/internal/queue"
)

// Catalog resolves restaurants from the (externally owned) catalog.
type Catalog interface {
	Restaurant(ctx context.Context, id string) (*model.Restaurant, error)
}

// HoursStore reads weekly hours and date overrides.
type HoursStore interface {
	Weekly(ctx context.Context, restaurantID string, day time.Weekday) ([]model.TimeRange, error)
	Override(ctx context.Context, restaurantID, date string) (*model.HoursOverride, error)
}

// Ledger is the capacity ledger. TryDebit must be atomic with respect
// to concurrent callers: it succeeds only if the debit fits within
// the slot total at the instant of the write and performs no partial
// mutation otherwise.
type Ledger interface {
	EnsureSlots(ctx context.Context, restaurantID, date string, times []string, tables []model.DiningTable) error
	Remaining(ctx context.Context, restaurantID, date, slot string) ([]model.CapacitySlot, error)
	TryDebit(ctx context.Context, restaurantID, date, slot, tableID string, seats int) error
	Credit(ctx context.Context, restaurantID, date, slot, tableID string, seats int) error
}

// HoldStore persists holds. Transition is the conditional status
// update that serializes finalize, cancel and expiry against each
// other; only the caller it returns true to may credit the ledger.
type HoldStore interface {
	Create(ctx context.Context, h *model.Hold) error
	GetByID(ctx context.Context, id string) (*model.Hold, error)
	ActiveByUser(ctx context.Context, userID string) (*model.Hold, error)
	Transition(ctx context.Context, id, from, to string) (bool, error)
	ExpiredActive(ctx context.Context, now time.Time) ([]model.Hold, error)
}

// ReservationStore persists reservations.
type ReservationStore interface {
	Create(ctx context.Context, res *model.Reservation) error
	GetByIDForUser(ctx context.Context, id, userID string) (*model.Reservation, error)
	ListByUser(ctx context.Context, userID string) ([]model.Reservation, error)
	Transition(ctx context.Context, id, from, to string) (bool, error)
}

// WaitlistStore persists waitlist entries in arrival order.
type WaitlistStore interface {
	Create(ctx context.Context, e *model.WaitlistEntry) error
	GetByID(ctx context.Context, id string) (*model.WaitlistEntry, error)
	EarliestWaiting(ctx context.Context, restaurantID, date string, maxParty int) (*model.WaitlistEntry, error)
	Transition(ctx context.Context, id, from, to string) (bool, error)
}

// EventPublisher emits domain events to the broker. Implementations
// must tolerate broker outages; a failed publish is logged by the
// caller and never fails the booking operation itself.
type EventPublisher interface {
	CapacityReleased(ctx context.Context, ev queue.CapacityReleasedEvent) error
	WaitlistOffered(ctx context.Context, ev queue.WaitlistOfferedEvent) error
}

// Policy carries the service-wide booking knobs. Zero values fall
// back to the defaults below via withDefaults.
type Policy struct {
	SlotInterval        time.Duration // slot granularity, default 30m
	HoldTTL             time.Duration // regular hold TTL, default 10m
	OfferTTL            time.Duration // waitlist-offer hold TTL, default 5m
	DefaultDepositCents uint32        // per-person deposit fallback, default 2500
}

func (p Policy) withDefaults() Policy {
	if p.SlotInterval <= 0 {
		p.SlotInterval = 30 * time.Minute
	}
	if p.HoldTTL <= 0 {
		p.HoldTTL = 10 * time.Minute
	}
	if p.OfferTTL <= 0 {
		p.OfferTTL = 5 * time.Minute
	}
	if p.DefaultDepositCents == 0 {
		p.DefaultDepositCents = 2500
	}
	return p
}
