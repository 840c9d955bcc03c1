package create_booking

import (
	"context"

	"github.com/m04kA/campus-booking/internal/service/bookings/models"
	createBooking "github.com/m04kA/campus-booking/internal/usecase/create_booking"
)

type CreateBookingUseCase interface {
	Execute(ctx context.Context, req *createBooking.Request) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
