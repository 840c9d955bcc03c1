package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, time.January, 15, hour, minute, 0, 0, time.UTC)
}

func TestInterval_Overlaps(t *testing.T) {
	existing := Interval{Start: at(10, 0), End: at(11, 0)}

	testCases := []struct {
		name      string
		candidate Interval
		expected  bool
	}{
		{name: "partial overlap after", candidate: Interval{Start: at(10, 30), End: at(11, 30)}, expected: true},
		{name: "partial overlap before", candidate: Interval{Start: at(9, 30), End: at(10, 30)}, expected: true},
		{name: "contained", candidate: Interval{Start: at(10, 15), End: at(10, 45)}, expected: true},
		{name: "containing", candidate: Interval{Start: at(9, 0), End: at(12, 0)}, expected: true},
		{name: "identical", candidate: existing, expected: true},
		{name: "touching end", candidate: Interval{Start: at(11, 0), End: at(12, 0)}, expected: false},
		{name: "touching start", candidate: Interval{Start: at(9, 0), End: at(10, 0)}, expected: false},
		{name: "disjoint", candidate: Interval{Start: at(13, 0), End: at(14, 0)}, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, existing.Overlaps(tc.candidate))
			assert.Equal(t, tc.expected, tc.candidate.Overlaps(existing), "overlap must be symmetric")
		})
	}
}

func TestNewInterval(t *testing.T) {
	i, err := NewInterval(at(10, 0), at(11, 30))
	require.NoError(t, err)
	assert.Equal(t, 90, i.DurationMinutes())

	_, err = NewInterval(at(10, 0), at(10, 0))
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestInterval_ShiftDaysKeepsWallClock(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// 2025-03-29 10:00 CET, DST starts the next night
	i := Interval{
		Start: time.Date(2025, time.March, 29, 10, 0, 0, 0, loc),
		End:   time.Date(2025, time.March, 29, 11, 0, 0, 0, loc),
	}
	shifted := i.ShiftDays(1, loc)

	assert.Equal(t, 10, shifted.Start.Hour())
	assert.Equal(t, 30, shifted.Start.Day())
	assert.Equal(t, time.Hour, shifted.Duration())
}
