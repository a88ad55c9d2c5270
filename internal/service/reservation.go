package service

import (
	"context"
	"log"
	"time"

	"github.com/123R3N321/FoodTok/internal/model"
	"github.com/123R3N321/FoodTok/internal/queue"
	"github.com/123R3N321/FoodTok/internal/repository"
)

// ReservationService exposes read and cancel operations on durable
// reservations. Cancelling is the one path besides hold release that
// credits the ledger, and it goes through the same conditional
// transition gate.
type ReservationService struct {
	reservations ReservationStore
	ledger       Ledger
	publisher    EventPublisher
	clock        func() time.Time
}

// NewReservationService constructs a ReservationService.
func NewReservationService(reservations ReservationStore, ledger Ledger, publisher EventPublisher) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		ledger:       ledger,
		publisher:    publisher,
		clock:        func() time.Time { return time.Now().UTC() },
	}
}

// List returns the user's reservations, newest first.
func (s *ReservationService) List(ctx context.Context, userID string) ([]model.Reservation, error) {
	if userID == "" {
		return nil, repository.ErrAuthRequired
	}
	return s.reservations.ListByUser(ctx, userID)
}

// Get returns one reservation owned by the user.
func (s *ReservationService) Get(ctx context.Context, id, userID string) (*model.Reservation, error) {
	if userID == "" {
		return nil, repository.ErrAuthRequired
	}
	return s.reservations.GetByIDForUser(ctx, id, userID)
}

// Cancel moves a confirmed reservation to cancelled and credits its
// seats back to the ledger, re-opening the slot and triggering
// waitlist promotion. Only confirmed reservations are cancellable.
func (s *ReservationService) Cancel(ctx context.Context, id, userID string) error {
	if userID == "" {
		return repository.ErrAuthRequired
	}
	res, err := s.reservations.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return err
	}
	if res.Status != model.ReservationConfirmed {
		return repository.ErrConflict
	}
	won, err := s.reservations.Transition(ctx, res.ID, model.ReservationConfirmed, model.ReservationCancelled)
	if err != nil {
		return err
	}
	if !won {
		return repository.ErrConflict
	}
	for _, a := range res.Tables {
		if err := s.ledger.Credit(ctx, res.RestaurantID, res.Date, res.Time, a.TableID, a.Seats); err != nil {
			log.Printf("reservation: credit %d seats of table %s back failed: %v", a.Seats, a.TableID, err)
		}
	}
	ev := queue.CapacityReleasedEvent{
		RestaurantID: res.RestaurantID,
		Date:         res.Date,
		Time:         res.Time,
		Seats:        res.PartySize,
		Source:       "reservation_cancelled",
		ReleasedAt:   s.clock().Format(time.RFC3339),
	}
	if err := s.publisher.CapacityReleased(ctx, ev); err != nil {
		log.Printf("reservation: publish capacity released: %v", err)
	}
	return nil
}
