package service

import (
	"context"
	"crypto/rand"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/123R3N321/FoodTok/internal/model"
	"github.com/123R3N321/FoodTok/internal/queue"
	"github.com/123R3N321/FoodTok/internal/repository"
)

// HoldService owns the hold lifecycle: creation (which debits the
// ledger), finalization into a reservation (which transfers the debit
// without touching the ledger), cancellation and expiry (which credit
// it back). The status transition is always performed before the
// credit and is conditional on the hold still being active, so
// finalize, cancel and expiry can race freely and the credit runs at
// most once.
type HoldService struct {
	catalog      Catalog
	resolver     *HoursResolver
	ledger       Ledger
	holds        HoldStore
	reservations ReservationStore
	waitlist     WaitlistStore
	publisher    EventPublisher
	policy       Policy
	clock        func() time.Time
}

// NewHoldService constructs a HoldService.
func NewHoldService(catalog Catalog, resolver *HoursResolver, ledger Ledger, holds HoldStore,
	reservations ReservationStore, waitlist WaitlistStore, publisher EventPublisher, policy Policy) *HoldService {
	return &HoldService{
		catalog:      catalog,
		resolver:     resolver,
		ledger:       ledger,
		holds:        holds,
		reservations: reservations,
		waitlist:     waitlist,
		publisher:    publisher,
		policy:       policy.withDefaults(),
		clock:        func() time.Time { return time.Now().UTC() },
	}
}

// Create places a hold for the user on one slot. The requested slot
// is revalidated against current hours and capacity before the debit;
// losing the debit race returns ErrHoldConflict and the caller must
// re-query availability rather than retry blindly.
func (s *HoldService) Create(ctx context.Context, userID, restaurantID, date, slot string, partySize int) (*model.Hold, error) {
	return s.create(ctx, userID, restaurantID, date, slot, partySize, s.policy.HoldTTL, "")
}

// CreateOffer places a short-TTL hold on behalf of a waitlist entry.
func (s *HoldService) CreateOffer(ctx context.Context, entry *model.WaitlistEntry, slot string) (*model.Hold, error) {
	return s.create(ctx, entry.UserID, entry.RestaurantID, entry.RequestedDate, slot, entry.PartySize, s.policy.OfferTTL, entry.ID)
}

func (s *HoldService) create(ctx context.Context, userID, restaurantID, date, slot string, partySize int, ttl time.Duration, waitlistID string) (*model.Hold, error) {
	if userID == "" {
		return nil, repository.ErrAuthRequired
	}
	rest, err := s.catalog.Restaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if partySize <= 0 || partySize > rest.LargestParty() {
		return nil, repository.ErrInvalidPartySize
	}
	if !rest.AcceptsReservations {
		return nil, repository.ErrNoAvailability
	}

	ranges, err := s.resolver.Resolve(ctx, restaurantID, date)
	if err != nil {
		return nil, err
	}
	times := slotTimes(ranges, s.policy.SlotInterval)
	if !containsSlot(times, slot) {
		return nil, repository.ErrNoAvailability
	}
	if err := s.ledger.EnsureSlots(ctx, restaurantID, date, times, rest.Tables); err != nil {
		return nil, err
	}

	ledgerSlots, err := s.ledger.Remaining(ctx, restaurantID, date, slot)
	if err != nil {
		return nil, err
	}
	allocs, fits := selectTables(ledgerSlots, partySize, rest.CombinableTables)
	if !fits {
		return nil, repository.ErrNoAvailability
	}

	// Debit each selected table; the single-table case is the common
	// one. If a later leg of a combination loses its race the earlier
	// legs are credited back before reporting the conflict.
	for i, a := range allocs {
		if err := s.ledger.TryDebit(ctx, restaurantID, date, slot, a.TableID, a.Seats); err != nil {
			s.creditAllocations(ctx, restaurantID, date, slot, allocs[:i])
			if errors.Is(err, repository.ErrCapacityExceeded) {
				return nil, repository.ErrHoldConflict
			}
			return nil, err
		}
	}

	deposit := rest.DepositPerPersonCents
	if deposit == 0 {
		deposit = s.policy.DefaultDepositCents
	}
	now := s.clock()
	hold := &model.Hold{
		ID:                 uuid.NewString(),
		UserID:             userID,
		RestaurantID:       restaurantID,
		Date:               date,
		Time:               slot,
		PartySize:          partySize,
		Tables:             allocs,
		DepositAmountCents: deposit * uint32(partySize),
		WaitlistID:         waitlistID,
		Status:             model.HoldActive,
		CreatedAt:          now,
		ExpiresAt:          now.Add(ttl),
	}
	if err := s.holds.Create(ctx, hold); err != nil {
		s.creditAllocations(ctx, restaurantID, date, slot, allocs)
		return nil, err
	}
	return hold, nil
}

// Finalize converts an active, unexpired hold into a reservation.
// The ledger is not touched: ownership of the debit transfers from
// the hold to the reservation.
func (s *HoldService) Finalize(ctx context.Context, holdID, userID string) (*model.Reservation, error) {
	h, err := s.holds.GetByID(ctx, holdID)
	if err != nil {
		return nil, err
	}
	if userID != "" && h.UserID != userID {
		return nil, repository.ErrForbidden
	}
	now := s.clock()
	if h.Status == model.HoldActive && h.ExpiredAt(now) {
		if _, err := s.ExpireIfLapsed(ctx, h, now); err != nil {
			return nil, err
		}
		return nil, repository.ErrHoldExpired
	}
	if err := terminalErr(h.Status); err != nil {
		return nil, err
	}

	won, err := s.holds.Transition(ctx, h.ID, model.HoldActive, model.HoldFinalized)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, s.resolvedErr(ctx, h.ID)
	}

	code, err := confirmationCode()
	if err != nil {
		return nil, err
	}
	res := &model.Reservation{
		ID:                 uuid.NewString(),
		HoldID:             h.ID,
		UserID:             h.UserID,
		RestaurantID:       h.RestaurantID,
		Date:               h.Date,
		Time:               h.Time,
		PartySize:          h.PartySize,
		Tables:             h.Tables,
		ConfirmationCode:   code,
		DepositAmountCents: h.DepositAmountCents,
		Status:             model.ReservationConfirmed,
		CreatedAt:          now,
	}
	if err := s.reservations.Create(ctx, res); err != nil {
		return nil, err
	}
	if h.WaitlistID != "" {
		if _, err := s.waitlist.Transition(ctx, h.WaitlistID, model.WaitlistOffered, model.WaitlistFulfilled); err != nil {
			log.Printf("hold: mark waitlist entry %s fulfilled: %v", h.WaitlistID, err)
		}
	}
	return res, nil
}

// Cancel terminates an active hold and credits its capacity back,
// which in turn triggers waitlist promotion via the released event.
func (s *HoldService) Cancel(ctx context.Context, holdID, userID string) error {
	h, err := s.holds.GetByID(ctx, holdID)
	if err != nil {
		return err
	}
	if userID != "" && h.UserID != userID {
		return repository.ErrForbidden
	}
	now := s.clock()
	if h.Status == model.HoldActive && h.ExpiredAt(now) {
		if _, err := s.ExpireIfLapsed(ctx, h, now); err != nil {
			return err
		}
		return repository.ErrHoldExpired
	}
	if err := terminalErr(h.Status); err != nil {
		return err
	}

	won, err := s.holds.Transition(ctx, h.ID, model.HoldActive, model.HoldCancelled)
	if err != nil {
		return err
	}
	if !won {
		return s.resolvedErr(ctx, h.ID)
	}
	s.release(ctx, h, "hold_cancelled")
	if h.WaitlistID != "" {
		// An explicitly cancelled offer counts as declined.
		if _, err := s.waitlist.Transition(ctx, h.WaitlistID, model.WaitlistOffered, model.WaitlistExpired); err != nil {
			log.Printf("hold: mark waitlist entry %s expired: %v", h.WaitlistID, err)
		}
	}
	return nil
}

// ActiveHold returns the user's current active hold after running the
// lazy expiry check, or nil when the user holds nothing.
func (s *HoldService) ActiveHold(ctx context.Context, userID string) (*model.Hold, error) {
	if userID == "" {
		return nil, repository.ErrAuthRequired
	}
	h, err := s.holds.ActiveByUser(ctx, userID)
	if err != nil || h == nil {
		return nil, err
	}
	expired, err := s.ExpireIfLapsed(ctx, h, s.clock())
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, nil
	}
	return h, nil
}

// ExpireIfLapsed transitions an active hold past its TTL to expired
// and credits the ledger. Idempotent: the conditional transition
// ensures the credit runs exactly once no matter how many sweepers or
// lazy readers see the same lapsed hold. Reports whether this caller
// performed the expiry.
func (s *HoldService) ExpireIfLapsed(ctx context.Context, h *model.Hold, now time.Time) (bool, error) {
	if h.Status != model.HoldActive || !h.ExpiredAt(now) {
		return false, nil
	}
	won, err := s.holds.Transition(ctx, h.ID, model.HoldActive, model.HoldExpired)
	if err != nil || !won {
		return false, err
	}
	s.release(ctx, h, "hold_expired")
	if h.WaitlistID != "" {
		// A lapsed offer puts the entry back in line; the released
		// event re-runs promotion for the next candidate.
		if _, err := s.waitlist.Transition(ctx, h.WaitlistID, model.WaitlistOffered, model.WaitlistWaiting); err != nil {
			log.Printf("hold: return waitlist entry %s to waiting: %v", h.WaitlistID, err)
		}
	}
	return true, nil
}

// release credits every table allocation of a hold back to the ledger
// and publishes the released event. Only ever called by the winner of
// the status transition. Credit failures freeze the affected slot and
// are logged; the remaining allocations are still credited.
func (s *HoldService) release(ctx context.Context, h *model.Hold, source string) {
	for _, a := range h.Tables {
		if err := s.ledger.Credit(ctx, h.RestaurantID, h.Date, h.Time, a.TableID, a.Seats); err != nil {
			log.Printf("hold: credit %d seats of table %s back failed: %v", a.Seats, a.TableID, err)
		}
	}
	ev := queue.CapacityReleasedEvent{
		RestaurantID: h.RestaurantID,
		Date:         h.Date,
		Time:         h.Time,
		Seats:        h.PartySize,
		Source:       source,
		ReleasedAt:   s.clock().Format(time.RFC3339),
	}
	if err := s.publisher.CapacityReleased(ctx, ev); err != nil {
		log.Printf("hold: publish capacity released: %v", err)
	}
}

// creditAllocations undoes already-applied debits when a later step
// of hold creation fails.
func (s *HoldService) creditAllocations(ctx context.Context, restaurantID, date, slot string, allocs []model.TableAllocation) {
	for _, a := range allocs {
		if err := s.ledger.Credit(ctx, restaurantID, date, slot, a.TableID, a.Seats); err != nil {
			log.Printf("hold: compensating credit for table %s failed: %v", a.TableID, err)
		}
	}
}

// resolvedErr maps the status of a hold that lost a transition race
// to the terminal-state error the caller should see.
func (s *HoldService) resolvedErr(ctx context.Context, holdID string) error {
	h, err := s.holds.GetByID(ctx, holdID)
	if err != nil {
		return err
	}
	if err := terminalErr(h.Status); err != nil {
		return err
	}
	return repository.ErrHoldAlreadyResolved
}

func terminalErr(status string) error {
	switch status {
	case model.HoldExpired:
		return repository.ErrHoldExpired
	case model.HoldFinalized, model.HoldCancelled:
		return repository.ErrHoldAlreadyResolved
	}
	return nil
}

func containsSlot(times []string, slot string) bool {
	for _, t := range times {
		if t == slot {
			return true
		}
	}
	return false
}

// confirmationCode builds the short diner-facing code, three digits
// followed by three letters, from crypto/rand.
func confirmationCode() (string, error) {
	const digits = "0123456789"
	const letters = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	out := make([]byte, 6)
	for i := 0; i < 3; i++ {
		out[i] = digits[int(b[i])%len(digits)]
	}
	for i := 3; i < 6; i++ {
		out[i] = letters[int(b[i])%len(letters)]
	}
	return string(out), nil
}
