package ledger

import "time"

// DayKeyLayout is the canonical day-key format.
const DayKeyLayout = "2006-01-02"

// DayKey returns the calendar date of t in loc. Storage keys and "today"
// comparisons both go through here so they always agree on the bucket.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DayKeyLayout)
}

// ParseDayKey returns midnight of key in loc.
func ParseDayKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DayKeyLayout, key, loc)
}

// DaysInMonth reads back day 0 of the following month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ShiftMonth moves the first of (year, month) by delta months; time.Date
// normalises the overflow across year boundaries.
func ShiftMonth(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}
