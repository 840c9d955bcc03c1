package list_bookings

import (
	"net/http"
	"strings"

	"github.com/m04kA/campus-booking/internal/api/handlers"
	"github.com/m04kA/campus-booking/internal/service/bookings/models"
)

// parseQuery собирает фильтр из query-параметров:
// userId, resourceId, status (через запятую), from, to (RFC 3339), page, limit
func parseQuery(r *http.Request) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{}
	q := r.URL.Query()

	var err error
	if req.UserID, err = handlers.QueryInt64(r, "userId"); err != nil {
		return nil, err
	}
	if req.ResourceID, err = handlers.QueryInt64(r, "resourceId"); err != nil {
		return nil, err
	}
	if raw := q.Get("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				req.Statuses = append(req.Statuses, s)
			}
		}
	}
	if q.Get("from") != "" {
		from, err := handlers.QueryTime(r, "from")
		if err != nil {
			return nil, err
		}
		req.From = &from
	}
	if q.Get("to") != "" {
		to, err := handlers.QueryTime(r, "to")
		if err != nil {
			return nil, err
		}
		req.To = &to
	}
	if req.Page, err = handlers.QueryInt(r, "page"); err != nil {
		return nil, err
	}
	if req.Limit, err = handlers.QueryInt(r, "limit"); err != nil {
		return nil, err
	}
	return req, nil
}
