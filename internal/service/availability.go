package service

import (
	"context"
	"errors"

	"github.com/123R3N321/FoodTok/internal/repository"
)

// ReasonNoAvailability is the structured reason attached to an
// availability response whose slot list came back empty. Returned in
// the body rather than as an error so the caller can decide whether
// to present the waitlist.
const ReasonNoAvailability = "no_availability"

// Slot is one bookable time in an availability response.
// CapacityConstrained marks a slot that is open but falls in the
// restaurant's peak window with barely enough seats for the party;
// clients render it dimmed rather than hard-unavailable.
type Slot struct {
	Time                string `json:"time"`
	Available           bool   `json:"available"`
	CapacityConstrained bool   `json:"capacity_constrained"`
}

// Availability is the full response for one restaurant, date and
// party size. When no slot can seat the party, Slots is empty and
// Reason carries ReasonNoAvailability.
type Availability struct {
	RestaurantID          string `json:"restaurant_id"`
	Date                  string `json:"date"`
	PartySize             int    `json:"party_size"`
	Slots                 []Slot `json:"slots"`
	Reason                string `json:"reason,omitempty"`
	DepositPerPersonCents uint32 `json:"deposit_per_person_cents"`
	TotalDepositCents     uint32 `json:"total_deposit_cents"`
}

// AvailabilityService combines the hours resolver and the capacity
// ledger into the list of bookable slots for a date and party size.
type AvailabilityService struct {
	catalog  Catalog
	resolver *HoursResolver
	ledger   Ledger
	policy   Policy
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(catalog Catalog, resolver *HoursResolver, ledger Ledger, policy Policy) *AvailabilityService {
	return &AvailabilityService{catalog: catalog, resolver: resolver, ledger: ledger, policy: policy.withDefaults()}
}

// Query returns the slot list for one restaurant, date and party
// size. Reads here are deliberately not linearizable with concurrent
// debits; a slot reported available may still lose the race at hold
// time, which surfaces there as a hold conflict.
func (s *AvailabilityService) Query(ctx context.Context, restaurantID, date string, partySize int) (*Availability, error) {
	rest, err := s.catalog.Restaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if partySize <= 0 || partySize > rest.LargestParty() {
		return nil, repository.ErrInvalidPartySize
	}

	deposit := rest.DepositPerPersonCents
	if deposit == 0 {
		deposit = s.policy.DefaultDepositCents
	}
	out := &Availability{
		RestaurantID:          restaurantID,
		Date:                  date,
		PartySize:             partySize,
		Slots:                 []Slot{},
		DepositPerPersonCents: deposit,
		TotalDepositCents:     deposit * uint32(partySize),
	}
	if !rest.AcceptsReservations {
		out.Reason = ReasonNoAvailability
		return out, nil
	}

	ranges, err := s.resolver.Resolve(ctx, restaurantID, date)
	if err != nil {
		return nil, err
	}
	times := slotTimes(ranges, s.policy.SlotInterval)
	if len(times) == 0 {
		out.Reason = ReasonNoAvailability
		return out, nil
	}
	if err := s.ledger.EnsureSlots(ctx, restaurantID, date, times, rest.Tables); err != nil {
		return nil, err
	}

	anyAvailable := false
	slots := make([]Slot, 0, len(times))
	for _, tm := range times {
		ledgerSlots, err := s.ledger.Remaining(ctx, restaurantID, date, tm)
		if err != nil {
			// A corrupted slot is frozen against writes; report it as
			// unavailable instead of failing the whole response.
			if errors.Is(err, repository.ErrLedgerCorrupted) {
				slots = append(slots, Slot{Time: tm})
				continue
			}
			return nil, err
		}
		_, fits := selectTables(ledgerSlots, partySize, rest.CombinableTables)
		constrained := false
		if fits && inPeak(rest, tm) {
			constrained = maxSeatable(ledgerSlots, rest.CombinableTables) < partySize+rest.PeakBuffer
		}
		if fits {
			anyAvailable = true
		}
		slots = append(slots, Slot{Time: tm, Available: fits, CapacityConstrained: constrained})
	}
	if !anyAvailable {
		out.Reason = ReasonNoAvailability
		return out, nil
	}
	out.Slots = slots
	return out, nil
}
