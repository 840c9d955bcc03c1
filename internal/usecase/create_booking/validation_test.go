package create_booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/campus-booking/internal/domain"
)

func TestEvaluate_AdvanceWindowAcrossDSTChange(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	resource := &domain.Resource{
		ID:                 7,
		Type:               domain.ResourceRoom,
		WeeklyAvailability: everyDay("00:00", "23:59"),
		BookingRestrictions: domain.BookingRestrictions{
			AdvanceBookingDays:    30,
			MinBookingNoticeHours: 1,
		},
		IsActive: true,
	}

	// Летнее время в Берлине начинается 30 марта: 30 суток по 24 часа от 1 марта 12:00
	// заканчиваются 31 марта в 13:00 по местному времени
	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, berlin)

	tests := []struct {
		name    string
		start   time.Time
		wantErr error
	}{
		{name: "inside fixed window", start: time.Date(2025, time.March, 31, 12, 30, 0, 0, berlin)},
		{name: "last instant", start: time.Date(2025, time.March, 31, 13, 0, 0, 0, berlin)},
		{name: "past fixed window", start: time.Date(2025, time.March, 31, 13, 1, 0, 0, berlin), wantErr: domain.ErrTooFarAhead},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interval := domain.Interval{Start: tt.start, End: tt.start.Add(time.Hour)}

			err := Evaluate(resource, interval, now, berlin)

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
