package model

// CapacitySlot is the unit of bookable capacity the ledger debits and
// credits: one table at one time on one date.  ReservedCapacity never
// exceeds TotalCapacity; the ledger enforces that bound with a
// conditional write, and a slot observed in violation is frozen
// against further debits.
//
// Fields:
//  RestaurantID     – owning restaurant.
//  Date             – "YYYY-MM-DD".
//  Time             – slot start, "HH:MM".
//  TableID          – the table this slot belongs to.
//  TotalCapacity    – seats the table offers at this slot.
//  ReservedCapacity – seats currently debited by holds/reservations.
//  Frozen           – set when a ledger invariant violation was
//                     detected; debits against a frozen slot fail.
type CapacitySlot struct {
	RestaurantID     string // capacity_slots.restaurant_id
	Date             string // capacity_slots.slot_date
	Time             string // capacity_slots.slot_time
	TableID          string // capacity_slots.table_id
	TotalCapacity    int    // capacity_slots.total_capacity
	ReservedCapacity int    // capacity_slots.reserved_capacity
	Frozen           bool   // capacity_slots.frozen
}

// Remaining returns the seats still free in the slot.
func (s *CapacitySlot) Remaining() int {
	return s.TotalCapacity - s.ReservedCapacity
}
