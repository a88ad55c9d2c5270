package repository

import (
	"context"
	"database/sql"

	"github.com/123R3N321/FoodTok/internal/model"
)

// CapacityRepo is the authoritative seat-capacity ledger. One row of
// capacity_slots exists per (restaurant, date, time, table); debits
// and credits are conditional single-statement updates so that the
// 0 ≤ reserved ≤ total bound holds under concurrent writers without
// any in-process locking. The service runs as multiple stateless
// instances, so the database is the only synchronization point.
type CapacityRepo struct {
	db *sql.DB
}

// NewCapacityRepo returns a CapacityRepo bound to the provided database.
func NewCapacityRepo(db *sql.DB) *CapacityRepo { return &CapacityRepo{db: db} }

// EnsureSlots materializes ledger rows for every table at every slot
// time of a date. Existing rows are left untouched, so the call is
// idempotent and safe to repeat on every availability read. Rows
// start with reserved_capacity 0 and total_capacity equal to the
// table's seating capacity.
func (r *CapacityRepo) EnsureSlots(ctx context.Context, restaurantID, date string, times []string, tables []model.DiningTable) error {
	if len(times) == 0 || len(tables) == 0 {
		return nil
	}
	query := `INSERT IGNORE INTO capacity_slots
	          (restaurant_id, slot_date, slot_time, table_id, total_capacity, reserved_capacity, frozen) VALUES `
	args := make([]interface{}, 0, len(times)*len(tables)*5)
	first := true
	for _, tm := range times {
		for _, tbl := range tables {
			if !first {
				query += ","
			}
			first = false
			query += "(?, ?, ?, ?, ?, 0, 0)"
			args = append(args, restaurantID, date, tm, tbl.ID, tbl.Capacity)
		}
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// Remaining returns the ledger rows for one slot time across all of
// the restaurant's tables. A row observed with reserved capacity
// past its total indicates a broken conditional write somewhere; the
// slot is frozen on the spot and ErrLedgerCorrupted is returned so
// no further debits land on it.
func (r *CapacityRepo) Remaining(ctx context.Context, restaurantID, date, slot string) ([]model.CapacitySlot, error) {
	const q = `SELECT table_id, total_capacity, reserved_capacity, frozen
	           FROM capacity_slots
	           WHERE restaurant_id = ? AND slot_date = ? AND slot_time = ?
	           ORDER BY table_id`
	rows, err := r.db.QueryContext(ctx, q, restaurantID, date, slot)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var slots []model.CapacitySlot
	for rows.Next() {
		s := model.CapacitySlot{RestaurantID: restaurantID, Date: date, Time: slot}
		if err := rows.Scan(&s.TableID, &s.TotalCapacity, &s.ReservedCapacity, &s.Frozen); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range slots {
		if s.ReservedCapacity > s.TotalCapacity || s.ReservedCapacity < 0 {
			_ = r.freeze(ctx, restaurantID, date, slot, s.TableID)
			return nil, ErrLedgerCorrupted
		}
	}
	return slots, nil
}

// TryDebit reserves seats in one slot. It succeeds only if the new
// reserved total still fits within the table's capacity at the
// instant of the write; otherwise it returns ErrCapacityExceeded and
// mutates nothing. The WHERE clause is the compare-and-swap: two
// racing debits for the last seats serialize inside the database and
// exactly one sees RowsAffected = 1.
func (r *CapacityRepo) TryDebit(ctx context.Context, restaurantID, date, slot, tableID string, seats int) error {
	const q = `UPDATE capacity_slots
	           SET reserved_capacity = reserved_capacity + ?
	           WHERE restaurant_id = ? AND slot_date = ? AND slot_time = ? AND table_id = ?
	             AND frozen = 0
	             AND reserved_capacity + ? <= total_capacity`
	res, err := r.db.ExecContext(ctx, q, seats, restaurantID, date, slot, tableID, seats)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCapacityExceeded
	}
	return nil
}

// Credit releases previously debited seats. Crediting more than is
// currently reserved would drive the counter negative, which only a
// double release can cause; the slot is frozen and ErrLedgerCorrupted
// returned rather than silently clamping.
func (r *CapacityRepo) Credit(ctx context.Context, restaurantID, date, slot, tableID string, seats int) error {
	const q = `UPDATE capacity_slots
	           SET reserved_capacity = reserved_capacity - ?
	           WHERE restaurant_id = ? AND slot_date = ? AND slot_time = ? AND table_id = ?
	             AND reserved_capacity >= ?`
	res, err := r.db.ExecContext(ctx, q, seats, restaurantID, date, slot, tableID, seats)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		_ = r.freeze(ctx, restaurantID, date, slot, tableID)
		return ErrLedgerCorrupted
	}
	return nil
}

// freeze marks a slot so that TryDebit refuses it from now on. Used
// when an invariant violation was detected on the slot.
func (r *CapacityRepo) freeze(ctx context.Context, restaurantID, date, slot, tableID string) error {
	const q = `UPDATE capacity_slots SET frozen = 1
	           WHERE restaurant_id = ? AND slot_date = ? AND slot_time = ? AND table_id = ?`
	_, err := r.db.ExecContext(ctx, q, restaurantID, date, slot, tableID)
	return err
}
