package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every caller-facing rejection of the booking engine wraps exactly one of them,
// so transports can branch with errors.Is without knowing the concrete rule.
var (
	ErrInvalidInterval     = errors.New("domain: invalid interval")
	ErrPastBooking         = errors.New("domain: cannot book in the past")
	ErrPolicyViolation     = errors.New("domain: booking policy violation")
	ErrOutsideAvailability = errors.New("domain: requested slot is outside resource availability")
	ErrConflict            = errors.New("domain: booking conflicts with existing bookings")
	ErrIllegalTransition   = errors.New("domain: illegal status transition")
	ErrPreconditionFailed  = errors.New("domain: precondition failed")
)

// Specific rejections
var (
	ErrTooFarAhead         = kindError{kind: ErrPolicyViolation, msg: "booking is too far in advance"}
	ErrInsufficientNotice  = kindError{kind: ErrPolicyViolation, msg: "insufficient booking notice"}
	ErrDurationOutOfBounds = kindError{kind: ErrInvalidInterval, msg: "booking duration is out of bounds"}
	ErrEndBeforeStart      = kindError{kind: ErrInvalidInterval, msg: "end time must be after start time"}
	ErrNotConfirmed        = kindError{kind: ErrPreconditionFailed, msg: "only confirmed bookings can be checked in"}
	ErrNotCheckedIn        = kindError{kind: ErrPreconditionFailed, msg: "booking must be checked in and active before check-out"}
	ErrNotCancellable      = kindError{kind: ErrPreconditionFailed, msg: "cannot cancel completed or already cancelled booking"}
	ErrNotVerified         = kindError{kind: ErrPreconditionFailed, msg: "booking must be checked in before completion"}
)

// kindError конкретная ошибка, принадлежащая одному из видов выше
type kindError struct {
	kind error
	msg  string
}

func (e kindError) Error() string { return "domain: " + e.msg }

func (e kindError) Unwrap() error { return e.kind }

// TransitionError отказ в смене статуса. Kind: ErrIllegalTransition либо конкретная ошибка предусловия.
type TransitionError struct {
	Kind error
	From BookingStatus
	To   BookingStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%v: cannot change status from %s to %s", e.Kind, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return e.Kind }
