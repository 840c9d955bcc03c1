package create_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/campus-booking/internal/domain"
)

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден или неактивен
	ErrResourceNotFound = errors.New("create_booking: resource not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// ConflictError отказ из-за пересечения с активными бронированиями.
// errors.Is(err, domain.ErrConflict) == true.
type ConflictError struct {
	Conflicts    []*domain.Booking
	Alternatives domain.Alternatives
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v: %d conflicting booking(s)", domain.ErrConflict, len(e.Conflicts))
}

func (e *ConflictError) Unwrap() error {
	return domain.ErrConflict
}

// Decision итог оценки заявки
type Decision string

const (
	Accepted                    Decision = "accepted"
	RejectedInvalidInterval     Decision = "rejected_invalid_interval"
	RejectedPastBooking         Decision = "rejected_past_booking"
	RejectedTooFarAhead         Decision = "rejected_too_far_ahead"
	RejectedInsufficientNotice  Decision = "rejected_insufficient_notice"
	RejectedOutsideAvailability Decision = "rejected_outside_availability"
	RejectedConflict            Decision = "rejected_conflict"
	RejectedInvalidInput        Decision = "rejected_invalid_input"
	Failed                      Decision = "failed"
)

// OutcomeOf maps the error returned by Execute to its decision
func OutcomeOf(err error) Decision {
	switch {
	case err == nil:
		return Accepted
	case errors.Is(err, domain.ErrInvalidInterval):
		return RejectedInvalidInterval
	case errors.Is(err, domain.ErrPastBooking):
		return RejectedPastBooking
	case errors.Is(err, domain.ErrTooFarAhead):
		return RejectedTooFarAhead
	case errors.Is(err, domain.ErrInsufficientNotice):
		return RejectedInsufficientNotice
	case errors.Is(err, domain.ErrOutsideAvailability):
		return RejectedOutsideAvailability
	case errors.Is(err, domain.ErrConflict):
		return RejectedConflict
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrResourceNotFound):
		return RejectedInvalidInput
	default:
		return Failed
	}
}
