package deactivate_resource

import (
	"errors"
	"net/http"

	"github.com/m04kA/campus-booking/internal/api/handlers"
	"github.com/m04kA/campus-booking/internal/api/middleware"
	"github.com/m04kA/campus-booking/internal/service/resources"
)

const (
	msgInvalidResourceID = "некорректный ID ресурса"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgNotFound          = "ресурс не найден"
	msgForbidden         = "доступ запрещен"
)

type Handler struct {
	service ResourceService
	logger  Logger
}

func NewHandler(service ResourceService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/resources/{resourceId}
// Ресурс деактивируется, существующие бронирования сохраняются.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := handlers.PathID(r, "resourceId")
	if err != nil {
		h.logger.Warn("DELETE /resources/{id} - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.Deactivate(r.Context(), actor, resourceID); err != nil {
		switch {
		case errors.Is(err, resources.ErrAccessDenied):
			h.logger.Warn("DELETE /resources/{id} - Access denied: user_id=%d", actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, resources.ErrResourceNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /resources/{id} - Failed to deactivate resource: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /resources/{id} - Resource deactivated: resource_id=%d, by user_id=%d", resourceID, actor.ID)
	w.WriteHeader(http.StatusNoContent)
}
