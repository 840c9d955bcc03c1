// Package access собирает проверки прав "администратор или владелец" в одном месте.
package access

import (
	"errors"
	"fmt"

	"github.com/m04kA/campus-booking/internal/domain"
)

// ErrAccessDenied возвращается, когда у актора нет прав на действие
var ErrAccessDenied = errors.New("access: access denied")

// Action действие над бронированием или ресурсом
type Action string

const (
	ViewBooking      Action = "booking:view"
	CancelBooking    Action = "booking:cancel"
	ChangeStatus     Action = "booking:status"
	VerifyBooking    Action = "booking:verify"
	RefreshConflicts Action = "booking:refresh-conflicts"
	ListAllBookings  Action = "booking:list-all"
	ManageResources  Action = "resource:manage"
)

// ownerActions действия, доступные владельцу бронирования
var ownerActions = map[Action]bool{
	ViewBooking:   true,
	CancelBooking: true,
}

// Policy capability check (actor, action, booking)
type Policy struct{}

// NewPolicy создает политику доступа
func NewPolicy() *Policy {
	return &Policy{}
}

// Authorize returns nil when actor may perform action on booking.
// booking may be nil for actions that are not tied to a booking.
func (p *Policy) Authorize(actor domain.Actor, action Action, booking *domain.Booking) error {
	if actor.IsAdmin() {
		return nil
	}
	if booking != nil && ownerActions[action] && booking.IsOwnedBy(actor.ID) {
		return nil
	}
	return fmt.Errorf("%w: user %d cannot perform %s", ErrAccessDenied, actor.ID, action)
}
