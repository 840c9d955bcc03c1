package create_booking

import (
	"time"

	"github.com/m04kA/campus-booking/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID      int64              // ID пользователя
	ResourceID  int64              // ID ресурса
	Title       string             // Название мероприятия
	Description *string            // Описание (опционально)
	Start       time.Time          // Начало интервала
	End         time.Time          // Конец интервала
	Priority    *string            // low | medium | high | critical, по умолчанию medium
	Recurrence  *domain.Recurrence // Хранится как есть, не разворачивается
	Notes       *string            // Дополнительные заметки (опционально)
	Metadata    RequestMetadata    // Контекст запроса для аудита
}

// RequestMetadata контекст HTTP-запроса
type RequestMetadata struct {
	Source    string // web | mobile | admin | api, по умолчанию web
	IPAddress string
	UserAgent string
	RequestID string
}
