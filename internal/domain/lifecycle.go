package domain

import (
	"fmt"
	"strings"
	"time"
)

// transitions допустимые переходы статусов для административного изменения
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusRejected},
	StatusConfirmed: {StatusCancelled, StatusActive},
	StatusActive:    {StatusCompleted, StatusCancelled},
}

// CanTransitionTo reports whether the status table allows from -> to
func (s BookingStatus) CanTransitionTo(to BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible
func (s BookingStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// TransitionTo applies an admin-driven status change validated against the transition table
func (b *Booking) TransitionTo(to BookingStatus, notes string, now time.Time) error {
	if !to.IsValid() || !b.Status.CanTransitionTo(to) {
		return &TransitionError{Kind: ErrIllegalTransition, From: b.Status, To: to}
	}
	if to == StatusCompleted && !b.Verification.CheckedIn {
		return &TransitionError{Kind: ErrNotVerified, From: b.Status, To: to}
	}
	b.Status = to
	b.appendNote("Status Update", notes)
	if to == StatusCancelled {
		b.CancelledAt = &now
	}
	b.UpdatedAt = now
	return nil
}

// CheckIn marks a confirmed booking as started by actorID
func (b *Booking) CheckIn(actorID int64, notes string, now time.Time) error {
	if b.Status != StatusConfirmed {
		return fmt.Errorf("%w: status is %s", ErrNotConfirmed, b.Status)
	}
	b.Verification.CheckedIn = true
	b.Verification.CheckedInAt = &now
	b.Verification.CheckedInBy = &actorID
	if notes != "" {
		b.Verification.Notes = notes
	}
	b.Status = StatusActive
	b.UpdatedAt = now
	return nil
}

// CheckOut completes an active, checked-in booking
func (b *Booking) CheckOut(actorID int64, notes string, now time.Time) error {
	if !b.Verification.CheckedIn || b.Status != StatusActive {
		return fmt.Errorf("%w: status is %s, checked in: %t", ErrNotCheckedIn, b.Status, b.Verification.CheckedIn)
	}
	b.Verification.CheckedOut = true
	b.Verification.CheckedOutAt = &now
	b.Verification.CheckedOutBy = &actorID
	b.appendNote("Checkout", notes)
	b.Status = StatusCompleted
	b.UpdatedAt = now
	return nil
}

// Cancel cancels a booking that still occupies its resource
func (b *Booking) Cancel(reason string, now time.Time) error {
	if !b.Status.IsActive() {
		return fmt.Errorf("%w: status is %s", ErrNotCancellable, b.Status)
	}
	b.Status = StatusCancelled
	b.CancelledAt = &now
	if reason != "" {
		b.CancellationReason = &reason
	}
	b.appendNote("Cancelled", reason)
	b.UpdatedAt = now
	return nil
}

// appendNote добавляет запись в журнал заметок бронирования
func (b *Booking) appendNote(prefix, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	entry := prefix + ": " + text
	if b.Notes == nil || *b.Notes == "" {
		b.Notes = &entry
		return
	}
	joined := *b.Notes + "\n" + entry
	b.Notes = &joined
}
