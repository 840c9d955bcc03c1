package conflicts

import (
	"fmt"
	"time"

	"github.com/m04kA/campus-booking/internal/domain"
)

// Snapshot builds the cached conflict status from a conflict set
func Snapshot(found []*domain.Booking, at time.Time) domain.ConflictStatus {
	ids := make([]int64, len(found))
	for i, b := range found {
		ids[i] = b.ID
	}

	status := domain.ConflictStatus{
		HasConflict:         len(found) > 0,
		ConflictingBookings: ids,
		Resolved:            len(found) == 0,
		CheckedAt:           &at,
	}
	if status.HasConflict {
		status.Notes = fmt.Sprintf("%d overlapping booking(s) at %s", len(found), at.UTC().Format(time.RFC3339))
	}
	return status
}
