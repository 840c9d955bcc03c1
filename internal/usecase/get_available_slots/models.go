package get_available_slots

import (
	"time"

	"github.com/m04kA/campus-booking/internal/domain"
)

// Request модель запроса на получение свободных слотов
type Request struct {
	ResourceID      int64     // ID ресурса
	Date            time.Time // Дата (время игнорируется), трактуется в таймзоне ресурса
	DurationMinutes int       // Длина слота, по умолчанию DefaultSlotDuration
}

// Response модель ответа со списком свободных слотов
type Response struct {
	ResourceID      int64  `json:"resourceId"`
	Date            string `json:"date"` // YYYY-MM-DD
	DurationMinutes int    `json:"durationMinutes"`
	Slots           []Slot `json:"slots"`
}

// Slot свободный интервал
type Slot struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

func fromDomainSlots(slots []domain.AvailableSlot) []Slot {
	result := make([]Slot, 0, len(slots))
	for _, s := range slots {
		result = append(result, Slot{StartTime: s.Start, EndTime: s.End})
	}
	return result
}
