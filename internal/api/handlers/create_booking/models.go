package create_booking

import (
	"time"

	"github.com/m04kA/campus-booking/internal/domain"
	"github.com/m04kA/campus-booking/internal/service/bookings/models"
	createBooking "github.com/m04kA/campus-booking/internal/usecase/create_booking"
	"github.com/m04kA/campus-booking/internal/usecase/suggest_alternatives"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ResourceID  int64              `json:"resourceId"`
	Title       string             `json:"title"`
	Description *string            `json:"description,omitempty"`
	StartTime   time.Time          `json:"startTime"` // RFC 3339
	EndTime     time.Time          `json:"endTime"`   // RFC 3339
	Priority    *string            `json:"priority,omitempty"`
	Recurrence  *domain.Recurrence `json:"recurrence,omitempty"`
	Notes       *string            `json:"notes,omitempty"`
	Source      string             `json:"source,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64, meta createBooking.RequestMetadata) *createBooking.Request {
	meta.Source = r.Source
	return &createBooking.Request{
		UserID:      userID,
		ResourceID:  r.ResourceID,
		Title:       r.Title,
		Description: r.Description,
		Start:       r.StartTime,
		End:         r.EndTime,
		Priority:    r.Priority,
		Recurrence:  r.Recurrence,
		Notes:       r.Notes,
		Metadata:    meta,
	}
}

// RejectionResponse ответ на отклонённую заявку
type RejectionResponse struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Decision string `json:"decision"`
}

// ConflictResponse ответ при пересечении с существующими бронированиями
type ConflictResponse struct {
	RejectionResponse
	Conflicts    []models.BookingResponse       `json:"conflicts"`
	Alternatives *suggest_alternatives.Response `json:"alternatives"`
}

func newConflictResponse(status int, message string, err *createBooking.ConflictError) *ConflictResponse {
	return &ConflictResponse{
		RejectionResponse: RejectionResponse{
			Code:     status,
			Message:  message,
			Decision: string(createBooking.RejectedConflict),
		},
		Conflicts:    models.FromDomainBookingList(err.Conflicts).Bookings,
		Alternatives: suggest_alternatives.FromDomain(err.Alternatives),
	}
}
