package check_availability

import "github.com/m04kA/campus-booking/pkg/types"

// CheckAvailabilityRequest тело запроса; время задаётся в таймзоне ресурса
type CheckAvailabilityRequest struct {
	Date      string           `json:"date"`
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
}
