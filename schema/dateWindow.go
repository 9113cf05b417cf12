package schema

import "time"

const (
	// DayLayout format of a calendar day in the api responses
	DayLayout = "2006-01-02"
	// LocalDateTimeLayout format of the startDate/endDate query parameters, always read as UTC
	LocalDateTimeLayout = "2006-01-02T15:04:05"
)

// DateWindow inclusive range of instants used to select readings
type DateWindow struct {
	Start time.Time
	End   time.Time
}

func NewDateWindow(start time.Time, end time.Time) DateWindow {
	return DateWindow{
		Start: start.UTC(),
		End:   end.UTC(),
	}
}

// NewTrailingWindow [today-numOfDays 00:00:00Z, today 00:00:00Z], today being the UTC day of now
func NewTrailingWindow(now time.Time, numOfDays int) DateWindow {
	today := StartOfDay(now)
	return DateWindow{
		Start: today.AddDate(0, 0, -numOfDays),
		End:   today,
	}
}

// Contains true when t is within the window bounds, both included
func (w DateWindow) Contains(t time.Time) bool {
	return TimeAfterOrEqual(t, w.Start) && TimeBeforeOrEqual(t, w.End)
}

// Inverted true when the window starts after it ends
func (w DateWindow) Inverted() bool {
	return w.Start.After(w.End)
}

func (w DateWindow) Equal(w2 DateWindow) bool {
	return w.Start.Equal(w2.Start) && w.End.Equal(w2.End)
}

// ParseLocalDateTime read a date-time without offset as an UTC instant
func ParseLocalDateTime(value string) (time.Time, error) {
	return time.ParseInLocation(LocalDateTimeLayout, value, time.UTC)
}
