// Package repository defines error values shared across repositories
// and services. These sentinels let handlers distinguish expected
// booking outcomes from genuine failures: losing a debit race is a
// normal result surfaced to the caller, not a server error.
package repository

import "errors"

// ErrRestaurantNotFound is returned when the referenced restaurant
// does not exist in the catalog.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// ErrNoAvailability is returned when no slot can seat the requested
// party on the requested date. It is an expected outcome; callers
// typically respond by offering the waitlist.
var ErrNoAvailability = errors.New("no availability")

// ErrCapacityExceeded is returned by the ledger when a conditional
// debit would push reserved capacity past the slot total. The debit
// performs no partial mutation in that case.
var ErrCapacityExceeded = errors.New("capacity exceeded")

// ErrHoldConflict is returned when another request won the race for
// the last seats of a slot. Recoverable: the caller should re-query
// availability and pick again.
var ErrHoldConflict = errors.New("hold conflict")

// ErrHoldNotFound is returned when the referenced hold does not exist.
var ErrHoldNotFound = errors.New("hold not found")

// ErrHoldExpired is returned when acting on a hold whose TTL has
// elapsed. The capacity has been (or is about to be) credited back.
var ErrHoldExpired = errors.New("hold expired")

// ErrHoldAlreadyResolved is returned when acting on a hold that was
// already finalized or cancelled.
var ErrHoldAlreadyResolved = errors.New("hold already resolved")

// ErrInvalidPartySize is returned when the party size is not positive
// or exceeds what the restaurant can seat even with combined tables.
var ErrInvalidPartySize = errors.New("invalid party size")

// ErrAuthRequired is returned when an operation that needs a user
// identity was invoked without one.
var ErrAuthRequired = errors.New("authentication required")

// ErrReservationNotFound is returned when the referenced reservation
// does not exist or is not visible to the caller.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrForbidden is returned when the caller does not own the hold or
// reservation being acted on.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because
// of the record's current state, such as cancelling a reservation
// that is already cancelled or completed.
var ErrConflict = errors.New("conflict")

// ErrLedgerCorrupted signals an observed ledger invariant violation
// (reserved capacity past the slot total outside an in-flight write).
// The slot is frozen against further debits; this is the only
// condition treated as fatal for the slot rather than the request.
var ErrLedgerCorrupted = errors.New("capacity ledger corrupted")
