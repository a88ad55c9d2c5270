package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/123R3N321/FoodTok/internal/model"
	"github.com/123R3N321/FoodTok/internal/queue"
	"github.com/123R3N321/FoodTok/internal/repository"
)

// In-memory store fakes. Each one mirrors the conditional-write
// behaviour of its SQL counterpart (most importantly the ledger's
// bounded debit and the status-transition CAS) so the engine's
// concurrency properties can be exercised without a database.

type memCatalog struct {
	restaurants map[string]*model.Restaurant
}

func (c *memCatalog) Restaurant(_ context.Context, id string) (*model.Restaurant, error) {
	r, ok := c.restaurants[id]
	if !ok {
		return nil, repository.ErrRestaurantNotFound
	}
	return r, nil
}

type memHours struct {
	weekly    map[time.Weekday][]model.TimeRange
	overrides map[string]*model.HoursOverride
}

func (h *memHours) Weekly(_ context.Context, _ string, day time.Weekday) ([]model.TimeRange, error) {
	return h.weekly[day], nil
}

func (h *memHours) Override(_ context.Context, _ string, date string) (*model.HoursOverride, error) {
	return h.overrides[date], nil
}

type memLedger struct {
	mu    sync.Mutex
	slots map[string]*model.CapacitySlot
}

func slotKey(restaurantID, date, slot, tableID string) string {
	return restaurantID + "|" + date + "|" + slot + "|" + tableID
}

func (l *memLedger) EnsureSlots(_ context.Context, restaurantID, date string, times []string, tables []model.DiningTable) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.slots == nil {
		l.slots = map[string]*model.CapacitySlot{}
	}
	for _, tm := range times {
		for _, tb := range tables {
			k := slotKey(restaurantID, date, tm, tb.ID)
			if _, ok := l.slots[k]; !ok {
				l.slots[k] = &model.CapacitySlot{
					RestaurantID:  restaurantID,
					Date:          date,
					Time:          tm,
					TableID:       tb.ID,
					TotalCapacity: tb.Capacity,
				}
			}
		}
	}
	return nil
}

func (l *memLedger) Remaining(_ context.Context, restaurantID, date, slot string) ([]model.CapacitySlot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []model.CapacitySlot
	for _, s := range l.slots {
		if s.RestaurantID == restaurantID && s.Date == date && s.Time == slot {
			if s.ReservedCapacity > s.TotalCapacity {
				s.Frozen = true
				return nil, repository.ErrLedgerCorrupted
			}
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TableID < out[j].TableID })
	return out, nil
}

func (l *memLedger) TryDebit(_ context.Context, restaurantID, date, slot, tableID string, seats int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[slotKey(restaurantID, date, slot, tableID)]
	if !ok || s.Frozen || s.ReservedCapacity+seats > s.TotalCapacity {
		return repository.ErrCapacityExceeded
	}
	s.ReservedCapacity += seats
	return nil
}

func (l *memLedger) Credit(_ context.Context, restaurantID, date, slot, tableID string, seats int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[slotKey(restaurantID, date, slot, tableID)]
	if !ok || s.ReservedCapacity < seats {
		if ok {
			s.Frozen = true
		}
		return repository.ErrLedgerCorrupted
	}
	s.ReservedCapacity -= seats
	return nil
}

// reserved reports the seats currently debited against one table slot.
func (l *memLedger) reserved(restaurantID, date, slot, tableID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[slotKey(restaurantID, date, slot, tableID)]
	if !ok {
		return 0
	}
	return s.ReservedCapacity
}

type memHolds struct {
	mu    sync.Mutex
	holds map[string]*model.Hold
}

func (m *memHolds) Create(_ context.Context, h *model.Hold) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.holds == nil {
		m.holds = map[string]*model.Hold{}
	}
	cp := *h
	m.holds[h.ID] = &cp
	return nil
}

func (m *memHolds) GetByID(_ context.Context, id string) (*model.Hold, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.holds[id]
	if !ok {
		return nil, repository.ErrHoldNotFound
	}
	cp := *h
	return &cp, nil
}

func (m *memHolds) ActiveByUser(_ context.Context, userID string) (*model.Hold, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.holds {
		if h.UserID == userID && h.Status == model.HoldActive {
			cp := *h
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memHolds) Transition(_ context.Context, id, from, to string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.holds[id]
	if !ok || h.Status != from {
		return false, nil
	}
	h.Status = to
	return true, nil
}

func (m *memHolds) ExpiredActive(_ context.Context, now time.Time) ([]model.Hold, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Hold
	for _, h := range m.holds {
		if h.Status == model.HoldActive && h.ExpiredAt(now) {
			out = append(out, *h)
		}
	}
	return out, nil
}

// status reads a hold's current status directly.
func (m *memHolds) status(id string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.holds[id]; ok {
		return h.Status
	}
	return ""
}

type memReservations struct {
	mu           sync.Mutex
	reservations map[string]*model.Reservation
}

func (m *memReservations) Create(_ context.Context, res *model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reservations == nil {
		m.reservations = map[string]*model.Reservation{}
	}
	cp := *res
	m.reservations[res.ID] = &cp
	return nil
}

func (m *memReservations) GetByIDForUser(_ context.Context, id, userID string) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.reservations[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	if res.UserID != userID {
		return nil, repository.ErrForbidden
	}
	cp := *res
	return &cp, nil
}

func (m *memReservations) ListByUser(_ context.Context, userID string) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Reservation
	for _, res := range m.reservations {
		if res.UserID == userID {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (m *memReservations) Transition(_ context.Context, id, from, to string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.reservations[id]
	if !ok || res.Status != from {
		return false, nil
	}
	res.Status = to
	return true, nil
}

type memWaitlist struct {
	mu      sync.Mutex
	entries map[string]*model.WaitlistEntry
}

func (m *memWaitlist) Create(_ context.Context, e *model.WaitlistEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = map[string]*model.WaitlistEntry{}
	}
	cp := *e
	m.entries[e.ID] = &cp
	return nil
}

func (m *memWaitlist) GetByID(_ context.Context, id string) (*model.WaitlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (m *memWaitlist) EarliestWaiting(_ context.Context, restaurantID, date string, maxParty int) (*model.WaitlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *model.WaitlistEntry
	for _, e := range m.entries {
		if e.RestaurantID != restaurantID || e.RequestedDate != date {
			continue
		}
		if e.Status != model.WaitlistWaiting || e.PartySize > maxParty {
			continue
		}
		if best == nil || e.CreatedAt.Before(best.CreatedAt) {
			best = e
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (m *memWaitlist) Transition(_ context.Context, id, from, to string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok || e.Status != from {
		return false, nil
	}
	e.Status = to
	return true, nil
}

func (m *memWaitlist) status(id string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[id]; ok {
		return e.Status
	}
	return ""
}

type memPublisher struct {
	mu       sync.Mutex
	released []queue.CapacityReleasedEvent
	offered  []queue.WaitlistOfferedEvent
}

func (p *memPublisher) CapacityReleased(_ context.Context, ev queue.CapacityReleasedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released = append(p.released, ev)
	return nil
}

func (p *memPublisher) WaitlistOffered(_ context.Context, ev queue.WaitlistOfferedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.offered = append(p.offered, ev)
	return nil
}

func (p *memPublisher) releasedEvents() []queue.CapacityReleasedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.CapacityReleasedEvent(nil), p.released...)
}

func (p *memPublisher) offeredEvents() []queue.WaitlistOfferedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.WaitlistOfferedEvent(nil), p.offered...)
}

// fixture wires the full engine over the in-memory fakes with a
// controllable clock. testDate falls on a Sunday; the default weekly
// schedule opens 18:00-21:00 every day of the week.
type fixture struct {
	catalog      *memCatalog
	hours        *memHours
	ledger       *memLedger
	holds        *memHolds
	reservations *memReservations
	waitlist     *memWaitlist
	publisher    *memPublisher

	availability *AvailabilityService
	holdSvc      *HoldService
	resSvc       *ReservationService
	waitlistSvc  *WaitlistService
	sweeper      *Sweeper

	now time.Time
}

const (
	testRestaurant = "rest_1"
	testDate       = "2026-03-15"
)

func newFixture(rest *model.Restaurant) *fixture {
	weekly := map[time.Weekday][]model.TimeRange{}
	for d := time.Sunday; d <= time.Saturday; d++ {
		weekly[d] = []model.TimeRange{{Open: "18:00", Close: "21:00"}}
	}
	f := &fixture{
		catalog:      &memCatalog{restaurants: map[string]*model.Restaurant{rest.ID: rest}},
		hours:        &memHours{weekly: weekly, overrides: map[string]*model.HoursOverride{}},
		ledger:       &memLedger{},
		holds:        &memHolds{},
		reservations: &memReservations{},
		waitlist:     &memWaitlist{},
		publisher:    &memPublisher{},
		now:          time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}
	resolver := NewHoursResolver(f.catalog, f.hours)
	policy := Policy{}
	f.availability = NewAvailabilityService(f.catalog, resolver, f.ledger, policy)
	f.holdSvc = NewHoldService(f.catalog, resolver, f.ledger, f.holds,
		f.reservations, f.waitlist, f.publisher, policy)
	f.resSvc = NewReservationService(f.reservations, f.ledger, f.publisher)
	f.waitlistSvc = NewWaitlistService(f.waitlist, f.catalog, f.holdSvc, f.publisher)
	f.sweeper = NewSweeper(f.holds, f.holdSvc, time.Second)

	clock := func() time.Time { return f.now }
	f.holdSvc.clock = clock
	f.resSvc.clock = clock
	f.waitlistSvc.clock = clock
	f.sweeper.clock = clock
	return f
}

// advance moves the fixture clock forward.
func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

// twoTableRestaurant has a two-top and a four-top, no combining.
func twoTableRestaurant() *model.Restaurant {
	return &model.Restaurant{
		ID:                  testRestaurant,
		Name:                "Test Bistro",
		AcceptsReservations: true,
		Tables: []model.DiningTable{
			{ID: "tbl_2", RestaurantID: testRestaurant, TableNumber: "2", Capacity: 2},
			{ID: "tbl_4", RestaurantID: testRestaurant, TableNumber: "4", Capacity: 4},
		},
	}
}

// singleTableRestaurant has one four-top only.
func singleTableRestaurant() *model.Restaurant {
	return &model.Restaurant{
		ID:                  testRestaurant,
		Name:                "Test Bistro",
		AcceptsReservations: true,
		Tables: []model.DiningTable{
			{ID: "tbl_4", RestaurantID: testRestaurant, TableNumber: "4", Capacity: 4},
		},
	}
}
