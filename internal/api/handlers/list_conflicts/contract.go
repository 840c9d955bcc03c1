package list_conflicts

import (
	"context"

	"github.com/m04kA/campus-booking/internal/domain"
)

type ConflictDetector interface {
	FindConflicts(ctx context.Context, resourceID int64, interval domain.Interval, excludeID int64) ([]*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
