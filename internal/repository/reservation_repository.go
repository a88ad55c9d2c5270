package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/123R3N321/FoodTok/internal/model"
)

// ReservationRepo provides data access to reservations and the
// reservation_tables join that records which tables a party occupies.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the provided database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// Create inserts a reservation and its table allocations in one
// transaction. Called from finalize, which has already moved the
// source hold out of the active state.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
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

	const ins = `INSERT INTO reservations
	             (id, hold_id, user_id, restaurant_id, slot_date, slot_time, party_size,
	              confirmation_code, deposit_amount_cents, status, created_at)
	             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, ins,
		res.ID, res.HoldID, res.UserID, res.RestaurantID, res.Date, res.Time, res.PartySize,
		res.ConfirmationCode, res.DepositAmountCents, res.Status,
		res.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return err
	}
	if len(res.Tables) > 0 {
		query := `INSERT INTO reservation_tables (reservation_id, table_id, seats) VALUES `
		args := make([]interface{}, 0, len(res.Tables)*3)
		for i, a := range res.Tables {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?)"
			args = append(args, res.ID, a.TableID, a.Seats)
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

// GetByIDForUser loads one reservation and enforces ownership.
// Returns ErrReservationNotFound for a missing id and ErrForbidden
// when the reservation belongs to someone else.
func (r *ReservationRepo) GetByIDForUser(ctx context.Context, id, userID string) (*model.Reservation, error) {
	const q = `SELECT id, hold_id, user_id, restaurant_id, slot_date, slot_time, party_size,
	                  confirmation_code, deposit_amount_cents, status, created_at
	           FROM reservations WHERE id = ?`
	res := &model.Reservation{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&res.ID, &res.HoldID, &res.UserID, &res.RestaurantID, &res.Date, &res.Time, &res.PartySize,
		&res.ConfirmationCode, &res.DepositAmountCents, &res.Status, &res.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	if res.UserID != userID {
		return nil, ErrForbidden
	}
	if res.Tables, err = r.tables(ctx, res.ID); err != nil {
		return nil, err
	}
	return res, nil
}

// ListByUser returns all of a user's reservations, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID string) ([]model.Reservation, error) {
	const q = `SELECT id, hold_id, user_id, restaurant_id, slot_date, slot_time, party_size,
	                  confirmation_code, deposit_amount_cents, status, created_at
	           FROM reservations
	           WHERE user_id = ?
	           ORDER BY slot_date DESC, slot_time DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Reservation
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(
			&res.ID, &res.HoldID, &res.UserID, &res.RestaurantID, &res.Date, &res.Time, &res.PartySize,
			&res.ConfirmationCode, &res.DepositAmountCents, &res.Status, &res.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// Transition moves a reservation between statuses conditionally, same
// gate as HoldRepo.Transition: only the caller that performed the
// move (true return) may run the follow-up ledger credit.
func (r *ReservationRepo) Transition(ctx context.Context, id, from, to string) (bool, error) {
	const q = `UPDATE reservations SET status = ? WHERE id = ? AND status = ?`
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

func (r *ReservationRepo) tables(ctx context.Context, resID string) ([]model.TableAllocation, error) {
	const q = `SELECT table_id, seats FROM reservation_tables WHERE reservation_id = ? ORDER BY table_id`
	rows, err := r.db.QueryContext(ctx, q, resID)
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
