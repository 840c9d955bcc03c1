package update_booking_status

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/m04kA/campus-booking/internal/api/handlers"
	"github.com/m04kA/campus-booking/internal/api/middleware"
	"github.com/m04kA/campus-booking/internal/domain"
	"github.com/m04kA/campus-booking/internal/service/bookings"
	"github.com/m04kA/campus-booking/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgInvalidStatus      = "некорректный статус"
	msgIllegalTransition  = "переход из статуса %s в статус %s недопустим"
	msgNotVerified        = "нельзя перевести бронирование из статуса %s в статус %s без отметки о начале (check-in)"
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

// Handle PUT /api/v1/bookings/{bookingId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("PUT /bookings/{id}/status - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PUT /bookings/{id}/status - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bookings/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.service.TransitionStatus(r.Context(), actor, bookingID, &req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PUT /bookings/{id}/status - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PUT /bookings/{id}/status - Access denied: booking_id=%d, user_id=%d", bookingID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, domain.ErrIllegalTransition), errors.Is(err, domain.ErrPreconditionFailed):
			h.logger.Warn("PUT /bookings/{id}/status - Rejected: booking_id=%d: %v", bookingID, err)
			h.respondTransitionRejected(w, err, req.Status)

		default:
			h.logger.Error("PUT /bookings/{id}/status - Failed to update status: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings/{id}/status - Status updated: booking_id=%d, status=%s, user_id=%d",
		bookingID, booking.Status, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}

func (h *Handler) respondTransitionRejected(w http.ResponseWriter, err error, requested string) {
	resp := TransitionRejectedResponse{
		Code:            http.StatusConflict,
		RequestedStatus: requested,
	}

	format := msgIllegalTransition
	var transitionErr *domain.TransitionError
	if errors.As(err, &transitionErr) {
		resp.CurrentStatus = string(transitionErr.From)
		resp.RequestedStatus = string(transitionErr.To)
		if errors.Is(err, domain.ErrNotVerified) {
			format = msgNotVerified
		}
	}
	resp.Message = fmt.Sprintf(format, resp.CurrentStatus, resp.RequestedStatus)

	handlers.RespondJSON(w, http.StatusConflict, resp)
}
