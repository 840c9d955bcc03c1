package update_resource

import (
	"errors"
	"net/http"

	"github.com/m04kA/campus-booking/internal/api/handlers"
	"github.com/m04kA/campus-booking/internal/api/middleware"
	"github.com/m04kA/campus-booking/internal/service/resources"
	"github.com/m04kA/campus-booking/internal/service/resources/models"
)

const (
	msgInvalidResourceID  = "некорректный ID ресурса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "ресурс не найден"
	msgForbidden          = "доступ запрещен"
	msgInvalidResource    = "некорректные данные ресурса"
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

// Handle PUT /api/v1/resources/{resourceId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := handlers.PathID(r, "resourceId")
	if err != nil {
		h.logger.Warn("PUT /resources/{id} - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdateResourceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /resources/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resource, err := h.service.Update(r.Context(), actor, resourceID, &req)
	if err != nil {
		switch {
		case errors.Is(err, resources.ErrAccessDenied):
			h.logger.Warn("PUT /resources/{id} - Access denied: user_id=%d", actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, resources.ErrResourceNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, resources.ErrInvalidInput):
			h.logger.Warn("PUT /resources/{id} - Invalid resource: %v", err)
			handlers.RespondError(w, http.StatusBadRequest, msgInvalidResource+": "+err.Error())

		default:
			h.logger.Error("PUT /resources/{id} - Failed to update resource: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /resources/{id} - Resource updated: resource_id=%d, by user_id=%d", resourceID, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, resource)
}
