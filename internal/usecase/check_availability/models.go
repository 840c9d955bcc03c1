package check_availability

import (
	"time"

	"github.com/m04kA/campus-booking/internal/service/bookings/models"
	"github.com/m04kA/campus-booking/internal/usecase/suggest_alternatives"
	"github.com/m04kA/campus-booking/pkg/types"
)

// Request модель запроса проверки доступности.
// Дата и время трактуются в таймзоне ресурса.
type Request struct {
	ResourceID int64            `json:"-"`
	Date       time.Time        `json:"-"`
	StartTime  types.TimeString `json:"startTime"`
	EndTime    types.TimeString `json:"endTime"`
}

// Response результат проверки
type Response struct {
	WithinAvailability bool                           `json:"withinAvailability"`
	Available          bool                           `json:"available"`
	HasConflicts       bool                           `json:"hasConflicts"`
	Conflicts          []models.BookingResponse       `json:"conflicts"`
	Alternatives       *suggest_alternatives.Response `json:"alternatives"`
}
