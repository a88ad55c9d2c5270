package service

import (
	"context"
	"fmt"
	"time"

	"github.com/123R3N321/FoodTok/internal/model"
)

// HoursResolver resolves a restaurant's operating hours for a single
// date: a date override wins verbatim (including an explicit closure),
// otherwise the recurring weekly schedule for that weekday applies.
type HoursResolver struct {
	catalog Catalog
	hours   HoursStore
}

// NewHoursResolver constructs a resolver over the given stores.
func NewHoursResolver(catalog Catalog, hours HoursStore) *HoursResolver {
	return &HoursResolver{catalog: catalog, hours: hours}
}

// Resolve returns the ordered open ranges for the date, or an empty
// slice when the restaurant is closed. Returns ErrRestaurantNotFound
// for an unknown restaurant.
func (r *HoursResolver) Resolve(ctx context.Context, restaurantID, date string) ([]model.TimeRange, error) {
	if _, err := r.catalog.Restaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", date, err)
	}
	ov, err := r.hours.Override(ctx, restaurantID, date)
	if err != nil {
		return nil, err
	}
	if ov != nil {
		if ov.Closed {
			return nil, nil
		}
		return ov.Ranges, nil
	}
	return r.hours.Weekly(ctx, restaurantID, day.Weekday())
}

// clockMinutes parses an "HH:MM" string into minutes since midnight.
func clockMinutes(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// minutesClock formats minutes since midnight back to "HH:MM".
func minutesClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// slotTimes enumerates candidate slot starts within the open ranges
// at the given granularity. The close bound is exclusive: a range of
// 18:00–21:00 at 30 minutes yields 18:00 through 20:30. Malformed
// ranges are skipped.
func slotTimes(ranges []model.TimeRange, interval time.Duration) []string {
	step := int(interval / time.Minute)
	if step <= 0 {
		step = 30
	}
	var out []string
	for _, tr := range ranges {
		open, ok := clockMinutes(tr.Open)
		if !ok {
			continue
		}
		clos, ok := clockMinutes(tr.Close)
		if !ok || clos <= open {
			continue
		}
		for m := open; m < clos; m += step {
			out = append(out, minutesClock(m))
		}
	}
	return out
}

// inPeak reports whether a slot falls inside the restaurant's
// configured peak window. Restaurants without a window never peak.
func inPeak(rest *model.Restaurant, slot string) bool {
	if rest.PeakStart == "" || rest.PeakEnd == "" {
		return false
	}
	s, ok1 := clockMinutes(slot)
	lo, ok2 := clockMinutes(rest.PeakStart)
	hi, ok3 := clockMinutes(rest.PeakEnd)
	if !ok1 || !ok2 || !ok3 {
		return false
	}
	return s >= lo && s < hi
}
