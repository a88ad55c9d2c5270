package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/123R3N321/FoodTok/internal/model"
)

// WaitlistRepo provides data access to waitlist entries. Promotion
// order is strictly arrival order within a restaurant+date bucket.
type WaitlistRepo struct {
	db *sql.DB
}

// NewWaitlistRepo returns a WaitlistRepo bound to the provided database.
func NewWaitlistRepo(db *sql.DB) *WaitlistRepo { return &WaitlistRepo{db: db} }

// Create inserts a new entry.
func (r *WaitlistRepo) Create(ctx context.Context, e *model.WaitlistEntry) error {
	const q = `INSERT INTO waitlist_entries
	           (id, restaurant_id, user_id, requested_date, requested_time, party_size, status, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.RestaurantID, e.UserID, e.RequestedDate, e.RequestedTime,
		e.PartySize, e.Status, e.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	return err
}

// GetByID loads one entry, or nil when it does not exist.
func (r *WaitlistRepo) GetByID(ctx context.Context, id string) (*model.WaitlistEntry, error) {
	const q = `SELECT id, restaurant_id, user_id, requested_date, requested_time, party_size, status, created_at
	           FROM waitlist_entries WHERE id = ?`
	e := &model.WaitlistEntry{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&e.ID, &e.RestaurantID, &e.UserID, &e.RequestedDate, &e.RequestedTime,
		&e.PartySize, &e.Status, &e.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// EarliestWaiting returns the oldest waiting entry for a
// restaurant+date whose party fits within maxParty seats, or nil when
// no entry qualifies.
func (r *WaitlistRepo) EarliestWaiting(ctx context.Context, restaurantID, date string, maxParty int) (*model.WaitlistEntry, error) {
	const q = `SELECT id, restaurant_id, user_id, requested_date, requested_time, party_size, status, created_at
	           FROM waitlist_entries
	           WHERE restaurant_id = ? AND requested_date = ? AND status = 'waiting' AND party_size <= ?
	           ORDER BY created_at LIMIT 1`
	e := &model.WaitlistEntry{}
	err := r.db.QueryRowContext(ctx, q, restaurantID, date, maxParty).Scan(
		&e.ID, &e.RestaurantID, &e.UserID, &e.RequestedDate, &e.RequestedTime,
		&e.PartySize, &e.Status, &e.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Transition moves an entry between statuses conditionally, reporting
// whether this caller performed the move.
func (r *WaitlistRepo) Transition(ctx context.Context, id, from, to string) (bool, error) {
	const q = `UPDATE waitlist_entries SET status = ? WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, to, id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
