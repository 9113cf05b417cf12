package schema

import "time"

func TimeBeforeOrEqual(t time.Time, t2 time.Time) bool {
	return t.Before(t2) || t.Equal(t2)
}

func TimeAfterOrEqual(t time.Time, t2 time.Time) bool {
	return t.After(t2) || t.Equal(t2)
}

// StartOfDay midnight UTC of the day of t
func StartOfDay(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}

// DayKey the UTC calendar day of t, formatted with DayLayout
func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// WholeDaysBetween number of complete 24h periods from start to end, negative when end is before start
func WholeDaysBetween(start time.Time, end time.Time) int {
	return int(end.Sub(start) / (24 * time.Hour))
}
