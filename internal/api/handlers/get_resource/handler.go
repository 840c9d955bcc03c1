package get_resource

import (
	"errors"
	"net/http"

	"github.com/m04kA/campus-booking/internal/api/handlers"
	"github.com/m04kA/campus-booking/internal/api/middleware"
	"github.com/m04kA/campus-booking/internal/service/resources"
)

const (
	msgInvalidResourceID = "некорректный ID ресурса"
	msgNotFound          = "ресурс не найден"
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

// Handle GET /api/v1/resources/{resourceId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := handlers.PathID(r, "resourceId")
	if err != nil {
		h.logger.Warn("GET /resources/{id} - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	actor, _ := middleware.GetActor(r.Context())

	resource, err := h.service.GetByID(r.Context(), actor, resourceID)
	if err != nil {
		if errors.Is(err, resources.ErrResourceNotFound) {
			h.logger.Warn("GET /resources/{id} - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /resources/{id} - Failed to get resource: resource_id=%d, error=%v", resourceID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resource)
}
