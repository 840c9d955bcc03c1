package check_in_booking

import (
	"context"

	"github.com/m04kA/campus-booking/internal/domain"
	"github.com/m04kA/campus-booking/internal/service/bookings/models"
)

type BookingService interface {
	CheckIn(ctx context.Context, actor domain.Actor, id int64, notes string) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
