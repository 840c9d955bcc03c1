package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/campus-booking/internal/domain"
)

// validateRequest валидирует входные данные запроса и подставляет длительность по умолчанию
func validateRequest(req *Request) error {
	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.DurationMinutes == 0 {
		req.DurationMinutes = domain.DefaultSlotDuration
	}
	if req.DurationMinutes < domain.MinBookingDurationMinutes || req.DurationMinutes > domain.MaxBookingDurationMinutes {
		return fmt.Errorf("%w: duration must be between %d and %d minutes",
			ErrInvalidInput, domain.MinBookingDurationMinutes, domain.MaxBookingDurationMinutes)
	}

	return nil
}

// validateDate проверяет, что дата подходит для бронирования. Обе даты уже в таймзоне ресурса.
func validateDate(date time.Time, now time.Time, advanceBookingDays int) error {
	// Проверяем, что дата не в прошлом
	if isDateInPast(date, now) {
		return ErrInvalidDate
	}

	// Проверяем, что дата не превышает ограничение advanceBookingDays
	maxDate := startOfDay(now).AddDate(0, 0, advanceBookingDays)
	if startOfDay(date).After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}
