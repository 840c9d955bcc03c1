package list_conflicts

import (
	"net/http"

	"github.com/m04kA/campus-booking/internal/api/handlers"
	"github.com/m04kA/campus-booking/internal/domain"
	"github.com/m04kA/campus-booking/internal/service/bookings/models"
)

const (
	msgInvalidResourceID = "некорректный ID ресурса"
	msgInvalidInterval   = "некорректный интервал, ожидаются start и end в формате RFC 3339"
	msgInvalidExcludeID  = "некорректный excludeId"
)

type Handler struct {
	detector ConflictDetector
	logger   Logger
}

func NewHandler(detector ConflictDetector, logger Logger) *Handler {
	return &Handler{
		detector: detector,
		logger:   logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/conflicts
// Query params: start, end (RFC 3339), excludeId (optional)
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
	interval, err := domain.NewInterval(start, end)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidInterval)
		return
	}

	excludeID, err := handlers.QueryInt64(r, "excludeId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidExcludeID)
		return
	}
	var exclude int64
	if excludeID != nil {
		exclude = *excludeID
	}

	found, err := h.detector.FindConflicts(r.Context(), resourceID, interval, exclude)
	if err != nil {
		h.logger.Error("GET /resources/{id}/conflicts - Failed to find conflicts: resource_id=%d, error=%v", resourceID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, models.FromDomainBookingList(found))
}
