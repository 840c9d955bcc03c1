package list_resource_types

import (
	"net/http"

	"github.com/m04kA/campus-booking/internal/api/handlers"
	"github.com/m04kA/campus-booking/internal/domain"
)

// ResourceTypesResponse список допустимых типов ресурсов
type ResourceTypesResponse struct {
	Types []string `json:"types"`
}

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Handle GET /api/v1/resources/types
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	types := domain.ResourceTypes()
	resp := ResourceTypesResponse{Types: make([]string, 0, len(types))}
	for _, t := range types {
		resp.Types = append(resp.Types, string(t))
	}
	handlers.RespondJSON(w, http.StatusOK, resp)
}
