package model

import "time"

// Waitlist statuses.  waiting → offered when capacity frees up and a
// short-TTL hold is created on the entry's behalf; an offer that
// lapses puts the entry back to waiting.  fulfilled and expired are
// terminal.
const (
	WaitlistWaiting   = "waiting"
	WaitlistOffered   = "offered"
	WaitlistExpired   = "expired"
	WaitlistFulfilled = "fulfilled"
)

// WaitlistEntry records a request for a slot that was full at request
// time.  Entries are promoted in arrival order within a
// restaurant+date bucket whenever the ledger is credited.
type WaitlistEntry struct {
	ID            string    // waitlist_entries.id
	RestaurantID  string    // waitlist_entries.restaurant_id
	UserID        string    // waitlist_entries.user_id
	RequestedDate string    // waitlist_entries.requested_date
	RequestedTime string    // waitlist_entries.requested_time (optional, "HH:MM")
	PartySize     int       // waitlist_entries.party_size
	Status        string    // waitlist_entries.status
	CreatedAt     time.Time // waitlist_entries.created_at
}
