package resources

import (
	"context"

	"github.com/m04kA/campus-booking/internal/domain"
	"github.com/m04kA/campus-booking/internal/service/access"
)

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	Create(ctx context.Context, res *domain.Resource) (*domain.Resource, error)
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	List(ctx context.Context, filter domain.ResourceFilter) ([]*domain.Resource, error)
	Update(ctx context.Context, res *domain.Resource) (*domain.Resource, error)
	Deactivate(ctx context.Context, id int64) error
}

// AccessPolicy интерфейс проверки прав
type AccessPolicy interface {
	Authorize(actor domain.Actor, action access.Action, booking *domain.Booking) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
