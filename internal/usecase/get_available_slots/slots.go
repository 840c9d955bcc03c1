package get_available_slots

import (
	"time"

	"github.com/m04kA/campus-booking/internal/domain"
)

// generateSlots нарезает каждое окно дня на слоты фиксированной длины с шагом slotDuration.
// Хвост окна короче slotDuration отбрасывается. Если дата сегодняшняя, слоты раньше
// now + noticeHours отбрасываются.
func generateSlots(
	day domain.DayAvailability,
	date time.Time,
	loc *time.Location,
	slotDuration int,
	now time.Time,
	noticeHours int,
) []domain.AvailableSlot {
	result := make([]domain.AvailableSlot, 0)
	if !day.Enabled {
		return result
	}

	earliest := now.Add(time.Duration(noticeHours) * time.Hour)

	for _, window := range day.Windows {
		current := window.Start
		for current.IsBefore(window.End) {
			slotEnd, err := current.AddMinutes(slotDuration)
			if err != nil || slotEnd.IsAfter(window.End) {
				// Слот выходит за окно или за полночь
				break
			}

			start := current.OnDate(date, loc)
			if !start.Before(earliest) {
				result = append(result, domain.AvailableSlot{
					Start:           start,
					End:             slotEnd.OnDate(date, loc),
					DurationMinutes: slotDuration,
				})
			}
			current = slotEnd
		}
	}

	return result
}

// dropBooked оставляет слоты, не пересекающиеся ни с одним активным бронированием.
// Граничащие интервалы (конец одного равен началу другого) не пересекаются.
func dropBooked(slots []domain.AvailableSlot, bookings []*domain.Booking) []domain.AvailableSlot {
	result := make([]domain.AvailableSlot, 0, len(slots))
	for _, slot := range slots {
		if !overlapsAny(slot.Interval(), bookings) {
			result = append(result, slot)
		}
	}
	return result
}

func overlapsAny(interval domain.Interval, bookings []*domain.Booking) bool {
	for _, booking := range bookings {
		// Пропускаем неактивные бронирования
		if !booking.IsActive() {
			continue
		}
		if interval.Overlaps(booking.Interval()) {
			return true
		}
	}
	return false
}

// startOfDay полночь того же календарного дня в той же локации
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня
func isDateInPast(date, now time.Time) bool {
	return startOfDay(date).Before(startOfDay(now))
}
