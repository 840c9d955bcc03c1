package conflicts

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("conflicts: booking not found")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("conflicts: internal error")
)
