package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/123R3N321/FoodTok/internal/model"
)

// HoldRepo provides data access to holds and their per-table seat
// allocations. All timestamps are stored and compared in UTC.
//
// Status transitions are conditional single-statement updates gated
// on the current status, so whichever of finalize, cancel or expiry
// reaches the row first wins and the losers see zero rows affected.
// That gate is what keeps the later ledger credit from ever running
// twice for the same hold.
type HoldRepo struct {
	db *sql.DB
}

// NewHoldRepo returns a HoldRepo bound to the provided database.
func NewHoldRepo(db *sql.DB) *HoldRepo { return &HoldRepo{db: db} }

// Create inserts a hold together with its table allocations in one
// transaction.
func (r *HoldRepo) Create(ctx context.Context, h *model.Hold) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const ins = `INSERT INTO holds
	             (id, user_id, restaurant_id, slot_date, slot_time, party_size,
	              deposit_amount_cents, waitlist_id, status, created_at, expires_at)
	             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var waitlistID interface{}
	if h.WaitlistID != "" {
		waitlistID = h.WaitlistID
	}
	_, err = tx.ExecContext(ctx, ins,
		h.ID, h.UserID, h.RestaurantID, h.Date, h.Time, h.PartySize,
		h.DepositAmountCents, waitlistID, h.Status,
		h.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		h.ExpiresAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return err
	}
	if len(h.Tables) > 0 {
		query := `INSERT INTO hold_tables (hold_id, table_id, seats) VALUES `
		args := make([]interface{}, 0, len(h.Tables)*3)
		for i, a := range h.Tables {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?)"
			args = append(args, h.ID, a.TableID, a.Seats)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID loads one hold with its table allocations. Returns
// ErrHoldNotFound when no such hold exists.
func (r *HoldRepo) GetByID(ctx context.Context, id string) (*model.Hold, error) {
	const q = `SELECT id, user_id, restaurant_id, slot_date, slot_time, party_size,
	                  deposit_amount_cents, COALESCE(waitlist_id, ''), status, created_at, expires_at
	           FROM holds WHERE id = ?`
	h := &model.Hold{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&h.ID, &h.UserID, &h.RestaurantID, &h.Date, &h.Time, &h.PartySize,
		&h.DepositAmountCents, &h.WaitlistID, &h.Status, &h.CreatedAt, &h.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHoldNotFound
	}
	if err != nil {
		return nil, err
	}
	if h.Tables, err = r.tables(ctx, h.ID); err != nil {
		return nil, err
	}
	return h, nil
}

// ActiveByUser returns the user's most recent active hold, or nil
// when the user holds nothing. Expiry is not evaluated here; callers
// run the lazy-expiry check on the returned hold.
func (r *HoldRepo) ActiveByUser(ctx context.Context, userID string) (*model.Hold, error) {
	const q = `SELECT id, user_id, restaurant_id, slot_date, slot_time, party_size,
	                  deposit_amount_cents, COALESCE(waitlist_id, ''), status, created_at, expires_at
	           FROM holds
	           WHERE user_id = ? AND status = 'active'
	           ORDER BY created_at DESC LIMIT 1`
	h := &model.Hold{}
	err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&h.ID, &h.UserID, &h.RestaurantID, &h.Date, &h.Time, &h.PartySize,
		&h.DepositAmountCents, &h.WaitlistID, &h.Status, &h.CreatedAt, &h.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if h.Tables, err = r.tables(ctx, h.ID); err != nil {
		return nil, err
	}
	return h, nil
}

// Transition moves a hold from one status to another and reports
// whether this caller performed the move. A false return means the
// hold was not in the expected status, usually because a concurrent
// finalize, cancel or expiry got there first.
func (r *HoldRepo) Transition(ctx context.Context, id, from, to string) (bool, error) {
	const q = `UPDATE holds SET status = ? WHERE id = ? AND status = ?`
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

// ExpiredActive returns active holds whose TTL elapsed at or before
// now, oldest first, for the periodic sweep.
func (r *HoldRepo) ExpiredActive(ctx context.Context, now time.Time) ([]model.Hold, error) {
	const q = `SELECT id, user_id, restaurant_id, slot_date, slot_time, party_size,
	                  deposit_amount_cents, COALESCE(waitlist_id, ''), status, created_at, expires_at
	           FROM holds
	           WHERE status = 'active' AND expires_at <= ?
	           ORDER BY expires_at`
	rows, err := r.db.QueryContext(ctx, q, now.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var holds []model.Hold
	for rows.Next() {
		var h model.Hold
		if err := rows.Scan(
			&h.ID, &h.UserID, &h.RestaurantID, &h.Date, &h.Time, &h.PartySize,
			&h.DepositAmountCents, &h.WaitlistID, &h.Status, &h.CreatedAt, &h.ExpiresAt,
		); err != nil {
			return nil, err
		}
		holds = append(holds, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range holds {
		if holds[i].Tables, err = r.tables(ctx, holds[i].ID); err != nil {
			return nil, err
		}
	}
	return holds, nil
}

func (r *HoldRepo) tables(ctx context.Context, holdID string) ([]model.TableAllocation, error) {
	const q = `SELECT table_id, seats FROM hold_tables WHERE hold_id = ? ORDER BY table_id`
	rows, err := r.db.QueryContext(ctx, q, holdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var allocs []model.TableAllocation
	for rows.Next() {
		var a model.TableAllocation
		if err := rows.Scan(&a.TableID, &a.Seats); err != nil {
			return nil, err
		}
		allocs = append(allocs, a)
	}
	return allocs, rows.Err()
}
