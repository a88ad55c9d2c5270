package model

import "time"

// Hold statuses.  A hold starts active and moves to exactly one of
// the three terminal states; there are no transitions out of a
// terminal state.
const (
	HoldActive    = "active"
	HoldFinalized = "finalized"
	HoldExpired   = "expired"
	HoldCancelled = "cancelled"
)

// Hold is a time-boxed, provisional capacity reservation.  Creating a
// hold debits the ledger; the debit is credited back when the hold
// expires or is cancelled, and transfers to the reservation when the
// hold is finalized.  A hold belongs exclusively to the user who
// requested it until it reaches a terminal state.
//
// Fields:
//  ID                 – primary key identifier.
//  UserID             – owner of the hold; always non-empty.
//  RestaurantID       – restaurant being booked.
//  Date               – "YYYY-MM-DD" of the requested slot.
//  Time               – "HH:MM" slot start.
//  PartySize          – seats requested.
//  Tables             – per-table seat allocation debited for this
//                       hold; credited back verbatim on release.
//  DepositAmountCents – deposit the user will owe if finalized.
//  WaitlistID         – set when the hold was created on behalf of a
//                       waitlist entry; empty otherwise.
//  Status             – active | finalized | expired | cancelled.
//  CreatedAt          – creation timestamp (UTC).
//  ExpiresAt          – CreatedAt + TTL (UTC).
type Hold struct {
	ID                 string    // holds.id
	UserID             string    // holds.user_id
	RestaurantID       string    // holds.restaurant_id
	Date               string    // holds.slot_date
	Time               string    // holds.slot_time
	PartySize          int       // holds.party_size
	Tables             []TableAllocation
	DepositAmountCents uint32    // holds.deposit_amount_cents
	WaitlistID         string    // holds.waitlist_id (nullable)
	Status             string    // holds.status
	CreatedAt          time.Time // holds.created_at
	ExpiresAt          time.Time // holds.expires_at
}

// TableAllocation records how many seats of one table a hold or
// reservation debited.  A party seated across a table combination has
// one allocation per table.
type TableAllocation struct {
	TableID string // hold_tables.table_id / reservation_tables.table_id
	Seats   int    // hold_tables.seats
}

// ExpiredAt reports whether the hold's TTL has elapsed at the given
// instant.  Only meaningful for active holds.
func (h *Hold) ExpiredAt(now time.Time) bool {
	return !now.Before(h.ExpiresAt)
}

// Terminal reports whether the hold has left the active state.
func (h *Hold) Terminal() bool {
	return h.Status != HoldActive
}
