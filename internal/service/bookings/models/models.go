package models

import (
	"fmt"
	"time"

	"github.com/m04kA/campus-booking/internal/domain"
)

// Request модели

// ListBookingsRequest запрос на получение списка бронирований
type ListBookingsRequest struct {
	UserID     *int64     `json:"userId,omitempty"`
	ResourceID *int64     `json:"resourceId,omitempty"`
	Statuses   []string   `json:"statuses,omitempty"`
	From       *time.Time `json:"from,omitempty"`
	To         *time.Time `json:"to,omitempty"`
	Page       int        `json:"page,omitempty"`  // с 1
	Limit      int        `json:"limit,omitempty"` // по умолчанию 20, максимум 100
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		UserID:     r.UserID,
		ResourceID: r.ResourceID,
		From:       r.From,
		To:         r.To,
		Limit:      r.Limit,
	}

	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if r.Page > 1 {
		filter.Offset = (r.Page - 1) * filter.Limit
	}
	if r.From != nil && r.To != nil && !r.From.Before(*r.To) {
		return filter, fmt.Errorf("from must be before to")
	}

	for _, s := range r.Statuses {
		status, err := ToDomainBookingStatus(s)
		if err != nil {
			return filter, err
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	return filter, nil
}

// UpdateStatusRequest запрос на административное изменение статуса
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// Response модели

// VerificationResponse отметки check-in/check-out
type VerificationResponse struct {
	CheckedIn    bool       `json:"checkedIn"`
	CheckedInAt  *time.Time `json:"checkedInAt,omitempty"`
	CheckedInBy  *int64     `json:"checkedInBy,omitempty"`
	CheckedOut   bool       `json:"checkedOut"`
	CheckedOutAt *time.Time `json:"checkedOutAt,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64                 `json:"id"`
	UserID          int64                 `json:"userId"`
	ResourceID      int64                 `json:"resourceId"`
	Title           string                `json:"title"`
	Description     *string               `json:"description,omitempty"`
	StartTime       time.Time             `json:"startTime"`
	EndTime         time.Time             `json:"endTime"`
	DurationMinutes int                   `json:"durationMinutes"`
	Status          string                `json:"status"`
	Priority        string                `json:"priority"`
	Recurrence      *domain.Recurrence    `json:"recurrence,omitempty"`
	ConflictStatus  domain.ConflictStatus `json:"conflictStatus"`
	Verification    VerificationResponse  `json:"verification"`
	Source          string                `json:"source"`
	Notes           *string               `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:              b.ID,
		UserID:          b.UserID,
		ResourceID:      b.ResourceID,
		Title:           b.Title,
		Description:     b.Description,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		Priority:        string(b.Priority),
		Recurrence:      b.Recurrence,
		ConflictStatus:  b.ConflictStatus,
		Verification: VerificationResponse{
			CheckedIn:    b.Verification.CheckedIn,
			CheckedInAt:  b.Verification.CheckedInAt,
			CheckedInBy:  b.Verification.CheckedInBy,
			CheckedOut:   b.Verification.CheckedOut,
			CheckedOutAt: b.Verification.CheckedOutAt,
			Notes:        b.Verification.Notes,
		},
		Source:             string(b.Metadata.Source),
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid booking status %q", status)
	}
	return s, nil
}
