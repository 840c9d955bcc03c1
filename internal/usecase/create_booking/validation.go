package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/campus-booking/internal/domain"
)

// validateRequest валидирует входные данные запроса (до правил политики)
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if len(title) > domain.MaxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", ErrInvalidInput, domain.MaxTitleLength)
	}

	if req.Description != nil && len(*req.Description) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidInput, domain.MaxDescriptionLength)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.Start.IsZero() || req.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidInput)
	}

	if req.Priority != nil && !domain.Priority(*req.Priority).IsValid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, *req.Priority)
	}

	if req.Metadata.Source != "" && !domain.Source(req.Metadata.Source).IsValid() {
		return fmt.Errorf("%w: unknown source %q", ErrInvalidInput, req.Metadata.Source)
	}

	if req.Recurrence != nil && strings.TrimSpace(req.Recurrence.Pattern) == "" {
		return fmt.Errorf("%w: recurrence pattern is required", ErrInvalidInput)
	}

	return nil
}

// Evaluate applies the temporal and schedule rules in order; the first failing rule wins.
// Conflicts are checked separately by the caller.
//
//  1. end > start
//  2. start >= now
//  3. start <= now + advanceBookingDays
//  4. start >= now + minBookingNoticeHours
//  5. the interval fits one availability window in the resource's local time
func Evaluate(resource *domain.Resource, interval domain.Interval, now time.Time, fallback *time.Location) error {
	if !interval.End.After(interval.Start) {
		return domain.ErrEndBeforeStart
	}

	if interval.Start.Before(now) {
		return domain.ErrPastBooking
	}

	advanceDays := resource.BookingRestrictions.EffectiveAdvanceBookingDays()
	// Окно считается в сутках по 24 часа, без поправки на переход на летнее время
	if interval.Start.After(now.Add(time.Duration(advanceDays) * 24 * time.Hour)) {
		return fmt.Errorf("%w: can only book %d days in advance", domain.ErrTooFarAhead, advanceDays)
	}

	noticeHours := resource.BookingRestrictions.EffectiveMinBookingNoticeHours()
	if interval.Start.Before(now.Add(time.Duration(noticeHours) * time.Hour)) {
		return fmt.Errorf("%w: must book at least %d hour(s) in advance", domain.ErrInsufficientNotice, noticeHours)
	}

	if !resource.AcceptsInterval(interval, fallback) {
		return domain.ErrOutsideAvailability
	}

	return nil
}

// resolvePriority возвращает приоритет или medium по умолчанию
func resolvePriority(p *string) domain.Priority {
	if p == nil || *p == "" {
		return domain.PriorityMedium
	}
	return domain.Priority(*p)
}

// resolveSource возвращает канал или web по умолчанию
func resolveSource(s string) domain.Source {
	if s == "" {
		return domain.SourceWeb
	}
	return domain.Source(s)
}
