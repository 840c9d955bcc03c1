package create_resource

import (
	"errors"
	"net/http"

	"github.com/m04kA/campus-booking/internal/api/handlers"
	"github.com/m04kA/campus-booking/internal/api/middleware"
	"github.com/m04kA/campus-booking/internal/service/resources"
	"github.com/m04kA/campus-booking/internal/service/resources/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
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

// Handle POST /api/v1/resources
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateResourceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /resources - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resource, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, resources.ErrAccessDenied):
			h.logger.Warn("POST /resources - Access denied: user_id=%d", actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, resources.ErrInvalidInput):
			h.logger.Warn("POST /resources - Invalid resource: %v", err)
			handlers.RespondError(w, http.StatusBadRequest, msgInvalidResource+": "+err.Error())

		default:
			h.logger.Error("POST /resources - Failed to create resource: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /resources - Resource created: resource_id=%d, by user_id=%d", resource.ID, actor.ID)
	handlers.RespondJSON(w, http.StatusCreated, resource)
}
