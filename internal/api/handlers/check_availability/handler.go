package check_availability

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/campus-booking/internal/api/handlers"
	"github.com/m04kA/campus-booking/internal/domain"
	checkAvailability "github.com/m04kA/campus-booking/internal/usecase/check_availability"
)

const (
	msgInvalidResourceID  = "некорректный ID ресурса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный интервал времени"
	msgResourceNotFound   = "ресурс не найден"
)

type Handler struct {
	useCase CheckAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CheckAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/resources/{resourceId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := handlers.PathID(r, "resourceId")
	if err != nil {
		h.logger.Warn("POST /resources/{id}/availability - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	var body CheckAvailabilityRequest
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("POST /resources/{id}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, body.Date)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &checkAvailability.Request{
		ResourceID: resourceID,
		Date:       date,
		StartTime:  body.StartTime,
		EndTime:    body.EndTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkAvailability.ErrResourceNotFound):
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, checkAvailability.ErrInvalidInput):
			h.logger.Warn("POST /resources/{id}/availability - Invalid interval: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTime)

		default:
			h.logger.Error("POST /resources/{id}/availability - Failed to check availability: resource_id=%d, error=%v",
				resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
