package domain

import "time"

// AvailableSlot free fixed-length interval of a resource on a date
type AvailableSlot struct {
	Start           time.Time
	End             time.Time
	DurationMinutes int
}

// Interval returns the slot as an interval
func (s AvailableSlot) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}

// Alternatives substitutes proposed for a conflicting request.
// Slots are conflict-free only; they are not re-checked against availability or policy.
type Alternatives struct {
	Resources []*Resource
	Slots     []Interval
}
