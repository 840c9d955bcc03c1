package list_resources

import (
	"errors"
	"net/http"

	"github.com/m04kA/campus-booking/internal/api/handlers"
	"github.com/m04kA/campus-booking/internal/api/middleware"
	"github.com/m04kA/campus-booking/internal/service/resources"
	"github.com/m04kA/campus-booking/internal/service/resources/models"
)

const msgInvalidQuery = "некорректные параметры запроса"

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

// Handle GET /api/v1/resources
// Query params: type, includeInactive (только администратор), page, limit
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Анонимный запрос видит только активные ресурсы
	actor, _ := middleware.GetActor(r.Context())

	req := &models.ListResourcesRequest{
		IncludeInactive: r.URL.Query().Get("includeInactive") == "true",
	}
	if t := r.URL.Query().Get("type"); t != "" {
		req.Type = &t
	}

	var err error
	if req.Page, err = handlers.QueryInt(r, "page"); err != nil {
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}
	if req.Limit, err = handlers.QueryInt(r, "limit"); err != nil {
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.service.List(r.Context(), actor, req)
	if err != nil {
		if errors.Is(err, resources.ErrInvalidInput) {
			h.logger.Warn("GET /resources - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidQuery)
			return
		}
		h.logger.Error("GET /resources - Failed to list resources: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /resources - %d resources", len(result.Resources))
	handlers.RespondJSON(w, http.StatusOK, result)
}
