package service

import "github.com/123R3N321/FoodTok/internal/model"

// selectTables chooses the seating for a party at one slot with the
// least wasted capacity: the smallest single table whose remaining
// seats fit the party, falling back to the cheapest pair of tables
// when the restaurant allows combinations. Frozen slots are never
// selectable. Returns the per-table seat allocation and whether the
// party can be seated at all.
func selectTables(slots []model.CapacitySlot, partySize int, combinable bool) ([]model.TableAllocation, bool) {
	best := -1
	for i, s := range slots {
		if s.Frozen || s.Remaining() < partySize {
			continue
		}
		if best == -1 || s.TotalCapacity < slots[best].TotalCapacity {
			best = i
		}
	}
	if best >= 0 {
		return []model.TableAllocation{{TableID: slots[best].TableID, Seats: partySize}}, true
	}
	if !combinable {
		return nil, false
	}

	// Pair search: smallest combined table capacity whose combined
	// remaining seats fit the party.
	bi, bj := -1, -1
	for i := 0; i < len(slots); i++ {
		if slots[i].Frozen || slots[i].Remaining() <= 0 {
			continue
		}
		for j := i + 1; j < len(slots); j++ {
			if slots[j].Frozen || slots[j].Remaining() <= 0 {
				continue
			}
			if slots[i].Remaining()+slots[j].Remaining() < partySize {
				continue
			}
			if bi == -1 || slots[i].TotalCapacity+slots[j].TotalCapacity < slots[bi].TotalCapacity+slots[bj].TotalCapacity {
				bi, bj = i, j
			}
		}
	}
	if bi == -1 {
		return nil, false
	}
	first := slots[bi].Remaining()
	if first > partySize {
		first = partySize
	}
	allocs := []model.TableAllocation{{TableID: slots[bi].TableID, Seats: first}}
	if rest := partySize - first; rest > 0 {
		allocs = append(allocs, model.TableAllocation{TableID: slots[bj].TableID, Seats: rest})
	}
	return allocs, true
}

// maxSeatable returns the largest party the slot could still seat:
// the best single-table remainder, or the best two-table sum when
// combinations are allowed. Used by the peak-window policy to decide
// whether an open slot is merely scraping by for the requested party.
func maxSeatable(slots []model.CapacitySlot, combinable bool) int {
	var first, second int
	for _, s := range slots {
		if s.Frozen {
			continue
		}
		r := s.Remaining()
		if r > first {
			second = first
			first = r
		} else if r > second {
			second = r
		}
	}
	if combinable {
		return first + second
	}
	return first
}
