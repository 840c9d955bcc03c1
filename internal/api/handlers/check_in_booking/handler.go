package check_in_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/campus-booking/internal/api/handlers"
	"github.com/m04kA/campus-booking/internal/api/middleware"
	"github.com/m04kA/campus-booking/internal/domain"
	"github.com/m04kA/campus-booking/internal/service/bookings"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgNotesTooLong       = "слишком длинные заметки"
	msgPrecondition       = "бронирование должно быть подтверждено"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/bookings/{bookingId}/checkin
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("PUT /bookings/{id}/checkin - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PUT /bookings/{id}/checkin - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req VerificationRequest
	if r.ContentLength != 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("PUT /bookings/{id}/checkin - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	booking, err := h.service.CheckIn(r.Context(), actor, bookingID, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PUT /bookings/{id}/checkin - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PUT /bookings/{id}/checkin - Access denied: booking_id=%d, user_id=%d", bookingID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgNotesTooLong)

		case errors.Is(err, domain.ErrPreconditionFailed), errors.Is(err, domain.ErrIllegalTransition):
			h.logger.Warn("PUT /bookings/{id}/checkin - Rejected: booking_id=%d: %v", bookingID, err)
			handlers.RespondError(w, http.StatusConflict, msgPrecondition)

		default:
			h.logger.Error("PUT /bookings/{id}/checkin - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings/{id}/checkin - Checked in: booking_id=%d, by user_id=%d", bookingID, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
