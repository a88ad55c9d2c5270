package model

// TimeRange is one open/close pair within a single day.  Times are
// "HH:MM" strings in the restaurant's local day; the close bound is
// exclusive for slot enumeration.
type TimeRange struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// WeeklyHours is the recurring schedule for one day of the week.
// DayOfWeek follows time.Weekday numbering (0 = Sunday).  A day with
// no WeeklyHours row is closed.  These rows are maintained by
// restaurant management and are read-only here.
type WeeklyHours struct {
	RestaurantID string // weekly_hours.restaurant_id
	DayOfWeek    int    // weekly_hours.day_of_week
	Ranges       []TimeRange
}

// HoursOverride replaces the weekly schedule for one specific date.
// When Closed is true the restaurant takes no bookings that date
// regardless of Ranges.  An override always wins over WeeklyHours.
type HoursOverride struct {
	RestaurantID string // hours_overrides.restaurant_id
	Date         string // hours_overrides.date ("YYYY-MM-DD")
	Closed       bool   // hours_overrides.is_closed
	Ranges       []TimeRange
}
