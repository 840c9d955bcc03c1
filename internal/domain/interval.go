package domain

import (
	"fmt"
	"time"
)

// Interval half-open time range [Start, End)
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewInterval builds an interval, rejecting end <= start
func NewInterval(start, end time.Time) (Interval, error) {
	if !end.After(start) {
		return Interval{}, fmt.Errorf("%w: %s - %s", ErrEndBeforeStart, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps reports a.start < b.end && a.end > b.start. Touching intervals do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}

// Duration length of the interval
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// DurationMinutes length in whole minutes
func (i Interval) DurationMinutes() int {
	return int(i.Duration() / time.Minute)
}

// ShiftDays moves both ends by n calendar days in loc, keeping wall-clock time
func (i Interval) ShiftDays(n int, loc *time.Location) Interval {
	return Interval{
		Start: i.Start.In(loc).AddDate(0, 0, n),
		End:   i.End.In(loc).AddDate(0, 0, n),
	}
}
