package booking

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrOverlap возвращается, когда БД отклонила пересекающееся бронирование
	// (exclusion constraint bookings_no_overlap)
	ErrOverlap = errors.New("booking.repository: overlapping booking exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")

	// ErrEncode возвращается при ошибке сериализации JSONB-полей
	ErrEncode = errors.New("booking.repository: failed to encode json column")
)

// PostgreSQL error codes
const (
	codeExclusionViolation = "23P01"
	codeUniqueViolation    = "23505"
)

// isOverlapViolation true, если вставка нарушила ограничение на пересечение интервалов
func isOverlapViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == codeExclusionViolation || pqErr.Code == codeUniqueViolation
}
