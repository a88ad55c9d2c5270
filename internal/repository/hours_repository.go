package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/123R3N321/FoodTok/internal/model"
)

// HoursRepo reads weekly operating hours and date-specific overrides.
// Both tables are maintained by restaurant management and are
// read-only to the engine. A day may have several open/close ranges
// (lunch and dinner service); rows are aggregated per day or date.
type HoursRepo struct {
	db *sql.DB
}

// NewHoursRepo returns an HoursRepo bound to the provided database.
func NewHoursRepo(db *sql.DB) *HoursRepo { return &HoursRepo{db: db} }

// Weekly returns the recurring open ranges for one day of the week,
// ordered by opening time. An empty slice means closed that day.
func (r *HoursRepo) Weekly(ctx context.Context, restaurantID string, day time.Weekday) ([]model.TimeRange, error) {
	const q = `SELECT open_time, close_time FROM weekly_hours
	           WHERE restaurant_id = ? AND day_of_week = ?
	           ORDER BY open_time`
	rows, err := r.db.QueryContext(ctx, q, restaurantID, int(day))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ranges []model.TimeRange
	for rows.Next() {
		var tr model.TimeRange
		if err := rows.Scan(&tr.Open, &tr.Close); err != nil {
			return nil, err
		}
		ranges = append(ranges, tr)
	}
	return ranges, rows.Err()
}

// Override returns the override for an exact date, or nil when none
// exists. A closed override has is_closed set and no range rows; a
// special-hours override carries replacement ranges.
func (r *HoursRepo) Override(ctx context.Context, restaurantID, date string) (*model.HoursOverride, error) {
	const q = `SELECT is_closed, COALESCE(open_time, ''), COALESCE(close_time, '')
	           FROM hours_overrides
	           WHERE restaurant_id = ? AND override_date = ?
	           ORDER BY open_time`
	rows, err := r.db.QueryContext(ctx, q, restaurantID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ov *model.HoursOverride
	for rows.Next() {
		var closed bool
		var open, clos string
		if err := rows.Scan(&closed, &open, &clos); err != nil {
			return nil, err
		}
		if ov == nil {
			ov = &model.HoursOverride{RestaurantID: restaurantID, Date: date}
		}
		if closed {
			ov.Closed = true
			continue
		}
		if open != "" && clos != "" {
			ov.Ranges = append(ov.Ranges, model.TimeRange{Open: open, Close: clos})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ov, nil
}
