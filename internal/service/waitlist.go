package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/123R3N321/FoodTok/internal/model"
	"github.com/123R3N321/FoodTok/internal/queue"
	"github.com/123R3N321/FoodTok/internal/repository"
)

// WaitlistService records requests for full slots and promotes them
// in arrival order whenever capacity is credited back. Promotion is
// driven by capacity.released events from the broker, so any instance
// may perform it; the conditional waiting→offered transition keeps
// double-delivered events from producing two offers.
type WaitlistService struct {
	waitlist  WaitlistStore
	catalog   Catalog
	holdSvc   *HoldService
	publisher EventPublisher
	clock     func() time.Time
}

// NewWaitlistService constructs a WaitlistService.
func NewWaitlistService(waitlist WaitlistStore, catalog Catalog, holdSvc *HoldService, publisher EventPublisher) *WaitlistService {
	return &WaitlistService{
		waitlist:  waitlist,
		catalog:   catalog,
		holdSvc:   holdSvc,
		publisher: publisher,
		clock:     func() time.Time { return time.Now().UTC() },
	}
}

// Enqueue appends a waiting entry for a restaurant and date. The
// requested time is optional; entries without one are offered the
// slot that actually freed up.
func (s *WaitlistService) Enqueue(ctx context.Context, userID, restaurantID, date, slot string, partySize int) (*model.WaitlistEntry, error) {
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
	entry := &model.WaitlistEntry{
		ID:            uuid.NewString(),
		RestaurantID:  restaurantID,
		UserID:        userID,
		RequestedDate: date,
		RequestedTime: slot,
		PartySize:     partySize,
		Status:        model.WaitlistWaiting,
		CreatedAt:     s.clock(),
	}
	if err := s.waitlist.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// HandleCapacityReleased promotes the earliest waiting entry that
// fits the freed capacity: a short-TTL hold is created on the user's
// behalf, the entry moves to offered and a notification event goes
// out. When the freed seats were already re-taken by the time the
// offer hold is attempted, promotion simply stands down; the next
// credit event will try again.
func (s *WaitlistService) HandleCapacityReleased(ctx context.Context, ev queue.CapacityReleasedEvent) error {
	entry, err := s.waitlist.EarliestWaiting(ctx, ev.RestaurantID, ev.Date, ev.Seats)
	if err != nil {
		return err
	}
	if entry == nil {
		return nil
	}
	slot := entry.RequestedTime
	if slot == "" {
		slot = ev.Time
	}
	// Claim the entry before debiting anything: two instances handling
	// the same credit then contend on this transition, not the ledger.
	won, err := s.waitlist.Transition(ctx, entry.ID, model.WaitlistWaiting, model.WaitlistOffered)
	if err != nil {
		return err
	}
	if !won {
		return nil
	}
	hold, err := s.holdSvc.CreateOffer(ctx, entry, slot)
	if err != nil {
		if _, terr := s.waitlist.Transition(ctx, entry.ID, model.WaitlistOffered, model.WaitlistWaiting); terr != nil {
			log.Printf("waitlist: return entry %s to waiting: %v", entry.ID, terr)
		}
		if errors.Is(err, repository.ErrHoldConflict) || errors.Is(err, repository.ErrNoAvailability) {
			return nil
		}
		return err
	}
	offered := queue.WaitlistOfferedEvent{
		WaitlistID:   entry.ID,
		UserID:       entry.UserID,
		RestaurantID: entry.RestaurantID,
		Date:         entry.RequestedDate,
		Time:         slot,
		PartySize:    entry.PartySize,
		HoldID:       hold.ID,
		ExpiresAt:    hold.ExpiresAt.Format(time.RFC3339),
	}
	if err := s.publisher.WaitlistOffered(ctx, offered); err != nil {
		log.Printf("waitlist: publish offer for entry %s: %v", entry.ID, err)
	}
	return nil
}
