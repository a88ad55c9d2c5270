package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/123R3N321/FoodTok/internal/model"
)

// RestaurantRepo reads the booking-relevant slice of the restaurant
// catalog: the reservation flags, deposit and peak policy, and the
// dining tables. The catalog itself is maintained elsewhere; this
// repository never writes to it.
type RestaurantRepo struct {
	db *sql.DB
}

// NewRestaurantRepo returns a RestaurantRepo bound to the provided database.
func NewRestaurantRepo(db *sql.DB) *RestaurantRepo { return &RestaurantRepo{db: db} }

// Restaurant loads one restaurant with its tables. Returns
// ErrRestaurantNotFound when no such restaurant exists.
func (r *RestaurantRepo) Restaurant(ctx context.Context, id string) (*model.Restaurant, error) {
	const q = `SELECT id, name, accepts_reservations, combinable_tables,
	                  deposit_per_person_cents, COALESCE(peak_start, ''), COALESCE(peak_end, ''), peak_buffer
	           FROM restaurants WHERE id = ?`
	rest := &model.Restaurant{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&rest.ID, &rest.Name, &rest.AcceptsReservations, &rest.CombinableTables,
		&rest.DepositPerPersonCents, &rest.PeakStart, &rest.PeakEnd, &rest.PeakBuffer,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, err
	}

	const tq = `SELECT id, restaurant_id, table_number, capacity
	            FROM dining_tables WHERE restaurant_id = ? ORDER BY capacity, id`
	rows, err := r.db.QueryContext(ctx, tq, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t model.DiningTable
		if err := rows.Scan(&t.ID, &t.RestaurantID, &t.TableNumber, &t.Capacity); err != nil {
			return nil, err
		}
		rest.Tables = append(rest.Tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rest, nil
}
