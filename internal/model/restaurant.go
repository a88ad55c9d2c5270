package model

// Restaurant describes a venue that takes table reservations.  The
// catalog (name, address, cuisine and so on) is owned by a separate
// service; this engine only needs the booking-relevant subset.
// Restaurants are immutable from the engine's point of view except
// for their hours, which are read on every availability request.
//
// Fields:
//  ID                    – primary key identifier (e.g. "rest_7f3a").
//  Name                  – display name, carried through for events.
//  AcceptsReservations   – when false the engine refuses all booking
//                          operations for the restaurant.
//  CombinableTables      – whether two free tables may be paired to
//                          seat a party larger than any single table.
//  DepositPerPersonCents – per-head deposit in cents; 0 means the
//                          service-wide default applies.
//  PeakStart, PeakEnd    – optional "HH:MM" bounds of the peak window
//                          used by the capacity-constrained policy.
//                          Both empty means no peak window.
//  PeakBuffer            – seats of head-room beyond the party size a
//                          peak slot must have before it counts as
//                          comfortably available.
type Restaurant struct {
	ID                    string // restaurants.id
	Name                  string // restaurants.name
	AcceptsReservations   bool   // restaurants.accepts_reservations
	CombinableTables      bool   // restaurants.combinable_tables
	DepositPerPersonCents uint32 // restaurants.deposit_per_person_cents
	PeakStart             string // restaurants.peak_start (nullable, "HH:MM")
	PeakEnd               string // restaurants.peak_end (nullable, "HH:MM")
	PeakBuffer            int    // restaurants.peak_buffer
	Tables                []DiningTable
}

// DiningTable is one physical table belonging to a restaurant.  Its
// capacity is the largest party it can seat on its own.
type DiningTable struct {
	ID           string // dining_tables.id
	RestaurantID string // dining_tables.restaurant_id
	TableNumber  string // dining_tables.table_number
	Capacity     int    // dining_tables.capacity
}

// LargestParty returns the biggest party size the restaurant can seat:
// the largest single table, or the sum of the two largest tables when
// combining is allowed.  Zero when the restaurant has no tables.
func (r *Restaurant) LargestParty() int {
	var first, second int
	for _, t := range r.Tables {
		if t.Capacity > first {
			second = first
			first = t.Capacity
		} else if t.Capacity > second {
			second = t.Capacity
		}
	}
	if r.CombinableTables {
		return first + second
	}
	return first
}
