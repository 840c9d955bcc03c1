package suggest_alternatives

import (
	"errors"
	"net/http"

	"github.com/m04kA/campus-booking/internal/api/handlers"
	suggestAlternatives "github.com/m04kA/campus-booking/internal/usecase/suggest_alternatives"
)

const (
	msgInvalidResourceID = "некорректный ID ресурса"
	msgInvalidInterval   = "некорректный интервал, ожидаются start и end в формате RFC 3339"
	msgResourceNotFound  = "ресурс не найден"
)

type Handler struct {
	useCase SuggestAlternativesUseCase
	logger  Logger
}

func NewHandler(useCase SuggestAlternativesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/alternatives
// Query params: start, end (RFC 3339)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := handlers.PathID(r, "resourceId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	start, err := handlers.QueryTime(r, "start")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidInterval)
		return
	}
	end, err := handlers.QueryTime(r, "end")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidInterval)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &suggestAlternatives.Request{
		ResourceID: resourceID,
		Start:      start,
		End:        end,
	})
	if err != nil {
		switch {
		case errors.Is(err, suggestAlternatives.ErrResourceNotFound):
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, suggestAlternatives.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInterval)

		default:
			h.logger.Error("GET /resources/{id}/alternatives - Failed to suggest alternatives: resource_id=%d, error=%v",
				resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /resources/{id}/alternatives - %d resources, %d slots: resource_id=%d",
		len(result.Resources), len(result.Slots), resourceID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
