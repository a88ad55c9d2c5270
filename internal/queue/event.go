// Package queue defines message payloads exchanged over the message
// broker and the background consumer that reacts to them.
package queue

// Queue names. capacity.released drives waitlist promotion;
// waitlist.offered feeds the external notification sink.
const (
	CapacityReleasedQueue = "capacity.released"
	WaitlistOfferedQueue  = "waitlist.offered"
)

// CapacityReleasedEvent is published whenever the ledger is credited
// back: a hold expired, a hold was cancelled, or a reservation was
// cancelled. The waitlist escalator consumes it to promote waiting
// entries for the same restaurant and date.
type CapacityReleasedEvent struct {
	RestaurantID string `json:"restaurant_id"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Seats        int    `json:"seats"`
	Source       string `json:"source"` // hold_expired | hold_cancelled | reservation_cancelled
	ReleasedAt   string `json:"released_at"`
}

// WaitlistOfferedEvent is published when a waitlist entry has been
// promoted and a short-TTL hold created on the user's behalf. The
// notification service consumes it to tell the user their table is
// ready to claim before the offer expires.
type WaitlistOfferedEvent struct {
	WaitlistID   string `json:"waitlist_id"`
	UserID       string `json:"user_id"`
	RestaurantID string `json:"restaurant_id"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	PartySize    int    `json:"party_size"`
	HoldID       string `json:"hold_id"`
	ExpiresAt    string `json:"expires_at"`
}
