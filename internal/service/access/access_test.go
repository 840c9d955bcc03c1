package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/campus-booking/internal/domain"
)

func TestPolicy_Authorize(t *testing.T) {
	policy := NewPolicy()
	booking := &domain.Booking{ID: 1, UserID: 10}

	admin := domain.Actor{ID: 1, Role: domain.RoleAdmin}
	owner := domain.Actor{ID: 10, Role: domain.RoleUser}
	stranger := domain.Actor{ID: 11, Role: domain.RoleUser}

	testCases := []struct {
		name     string
		actor    domain.Actor
		action   Action
		booking  *domain.Booking
		expected bool
	}{
		{name: "admin changes status", actor: admin, action: ChangeStatus, booking: booking, expected: true},
		{name: "admin manages resources", actor: admin, action: ManageResources, expected: true},
		{name: "owner views", actor: owner, action: ViewBooking, booking: booking, expected: true},
		{name: "owner cancels", actor: owner, action: CancelBooking, booking: booking, expected: true},
		{name: "owner cannot check in", actor: owner, action: VerifyBooking, booking: booking, expected: false},
		{name: "owner cannot change status", actor: owner, action: ChangeStatus, booking: booking, expected: false},
		{name: "stranger cannot view", actor: stranger, action: ViewBooking, booking: booking, expected: false},
		{name: "stranger cannot cancel", actor: stranger, action: CancelBooking, booking: booking, expected: false},
		{name: "user cannot list all", actor: owner, action: ListAllBookings, expected: false},
		{name: "user cannot manage resources", actor: owner, action: ManageResources, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := policy.Authorize(tc.actor, tc.action, tc.booking)
			if tc.expected {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrAccessDenied)
			}
		})
	}
}
