package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/campus-booking/internal/api/handlers"
	"github.com/m04kA/campus-booking/internal/api/middleware"
	"github.com/m04kA/campus-booking/internal/domain"
	createBooking "github.com/m04kA/campus-booking/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgInvalidInput        = "некорректные данные бронирования"
	msgResourceNotFound    = "ресурс не найден"
	msgInvalidInterval     = "некорректный интервал бронирования"
	msgPastBooking         = "нельзя забронировать время в прошлом"
	msgTooFarAhead         = "дата бронирования слишком далеко в будущем"
	msgInsufficientNotice  = "слишком поздно для бронирования этого времени"
	msgOutsideAvailability = "ресурс недоступен в выбранное время"
	msgConflict            = "выбранное время пересекается с существующими бронированиями"
	msgPolicyViolation     = "бронирование нарушает правила ресурса"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq := req.ToUseCaseRequest(actor.ID, createBooking.RequestMetadata{
		IPAddress: middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
		RequestID: middleware.GetRequestID(r.Context()),
	})

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		h.respondRejection(w, actor.ID, req.ResourceID, err)
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, resource_id=%d, status=%s",
		result.ID, actor.ID, req.ResourceID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

func (h *Handler) respondRejection(w http.ResponseWriter, userID, resourceID int64, err error) {
	decision := string(createBooking.OutcomeOf(err))

	var conflictErr *createBooking.ConflictError
	if errors.As(err, &conflictErr) {
		h.logger.Warn("POST /bookings - Conflict: user_id=%d, resource_id=%d, conflicts=%d",
			userID, resourceID, len(conflictErr.Conflicts))
		handlers.RespondJSON(w, http.StatusConflict, newConflictResponse(http.StatusConflict, msgConflict, conflictErr))
		return
	}

	status := http.StatusBadRequest
	var message string
	switch {
	case errors.Is(err, createBooking.ErrResourceNotFound):
		status, message = http.StatusNotFound, msgResourceNotFound
	case errors.Is(err, createBooking.ErrInvalidInput):
		message = msgInvalidInput
	case errors.Is(err, domain.ErrInvalidInterval):
		message = msgInvalidInterval
	case errors.Is(err, domain.ErrPastBooking):
		message = msgPastBooking
	case errors.Is(err, domain.ErrTooFarAhead):
		message = msgTooFarAhead
	case errors.Is(err, domain.ErrInsufficientNotice):
		message = msgInsufficientNotice
	case errors.Is(err, domain.ErrPolicyViolation):
		message = msgPolicyViolation
	case errors.Is(err, domain.ErrOutsideAvailability):
		message = msgOutsideAvailability
	default:
		h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, resource_id=%d, error=%v",
			userID, resourceID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Warn("POST /bookings - Rejected (%s): user_id=%d, resource_id=%d: %v", decision, userID, resourceID, err)
	handlers.RespondJSON(w, status, RejectionResponse{Code: status, Message: message, Decision: decision})
}
