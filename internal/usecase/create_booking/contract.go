package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/campus-booking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	LockForUpdate(ctx context.Context, id int64) (*domain.Resource, error)
}

// ConflictDetector интерфейс поиска пересекающихся бронирований
type ConflictDetector interface {
	FindConflicts(ctx context.Context, resourceID int64, interval domain.Interval, excludeID int64) ([]*domain.Booking, error)
}

// AlternativeSuggester интерфейс подбора альтернатив при конфликте
type AlternativeSuggester interface {
	Suggest(ctx context.Context, resource *domain.Resource, interval domain.Interval) (domain.Alternatives, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счётчик решений по заявкам
type Metrics interface {
	IncBookingDecision(outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
