package suggest_alternatives

import (
	"time"

	"github.com/m04kA/campus-booking/internal/domain"
)

// Request модель запроса альтернатив
type Request struct {
	ResourceID int64
	Start      time.Time
	End        time.Time
}

// ResourceSummary краткие данные альтернативного ресурса
type ResourceSummary struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Location *string `json:"location,omitempty"`
	Capacity int     `json:"capacity"`
}

// Response альтернативные ресурсы и сдвинутые по дням интервалы того же ресурса
type Response struct {
	Resources []ResourceSummary `json:"resources"`
	Slots     []domain.Interval `json:"slots"`
}

// FromDomain конвертирует domain.Alternatives в DTO
func FromDomain(a domain.Alternatives) *Response {
	resp := &Response{
		Resources: make([]ResourceSummary, 0, len(a.Resources)),
		Slots:     make([]domain.Interval, 0, len(a.Slots)),
	}
	for _, r := range a.Resources {
		resp.Resources = append(resp.Resources, ResourceSummary{
			ID:       r.ID,
			Name:     r.Name,
			Type:     string(r.Type),
			Location: r.Location,
			Capacity: r.Capacity,
		})
	}
	resp.Slots = append(resp.Slots, a.Slots...)
	return resp
}
