package check_availability

import (
	"context"

	"github.com/m04kA/campus-booking/internal/domain"
)

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetActiveByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// ConflictDetector интерфейс поиска пересекающихся бронирований
type ConflictDetector interface {
	FindConflicts(ctx context.Context, resourceID int64, interval domain.Interval, excludeID int64) ([]*domain.Booking, error)
}

// AlternativeSuggester интерфейс подбора альтернатив
type AlternativeSuggester interface {
	Suggest(ctx context.Context, resource *domain.Resource, interval domain.Interval) (domain.Alternatives, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
