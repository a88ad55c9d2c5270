package model

import "time"

// Reservation statuses.
const (
	ReservationConfirmed = "confirmed"
	ReservationCompleted = "completed"
	ReservationCancelled = "cancelled"
	ReservationNoShow    = "no-show"
)

// Reservation is the durable booking produced by finalizing a hold.
// The ledger debit made by the hold stays in place for the life of
// the reservation; cancelling the reservation credits it back.
//
// Fields:
//  ID                 – primary key identifier.
//  HoldID             – the hold this reservation was finalized from.
//  UserID             – booking owner.
//  RestaurantID       – restaurant booked.
//  Date, Time         – the reserved slot.
//  PartySize          – seats booked.
//  Tables             – seat allocation inherited from the hold.
//  ConfirmationCode   – short human-readable code shown to the diner.
//  DepositAmountCents – deposit carried over from the hold.
//  Status             – confirmed | completed | cancelled | no-show.
//  CreatedAt          – when the hold was finalized (UTC).
type Reservation struct {
	ID                 string    // reservations.id
	HoldID             string    // reservations.hold_id
	UserID             string    // reservations.user_id
	RestaurantID       string    // reservations.restaurant_id
	Date               string    // reservations.slot_date
	Time               string    // reservations.slot_time
	PartySize          int       // reservations.party_size
	Tables             []TableAllocation
	ConfirmationCode   string    // reservations.confirmation_code
	DepositAmountCents uint32    // reservations.deposit_amount_cents
	Status             string    // reservations.status
	CreatedAt          time.Time // reservations.created_at
}
