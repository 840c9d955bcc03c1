package domain

import (
	"fmt"
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusActive    BookingStatus = "active"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusRejected  BookingStatus = "rejected"
	StatusNoShow    BookingStatus = "no-show"
)

// IsValid reports whether the status is known
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusActive, StatusCompleted, StatusCancelled, StatusRejected, StatusNoShow:
		return true
	}
	return false
}

// IsActive reports whether a booking in this status occupies its resource
func (s BookingStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusActive
}

// Priority advisory booking priority
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// IsValid reports whether the priority is known
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Source channel a booking request came from
type Source string

const (
	SourceWeb    Source = "web"
	SourceMobile Source = "mobile"
	SourceAdmin  Source = "admin"
	SourceAPI    Source = "api"
)

// IsValid reports whether the source is known
func (s Source) IsValid() bool {
	switch s {
	case SourceWeb, SourceMobile, SourceAdmin, SourceAPI:
		return true
	}
	return false
}

// ConflictStatus point-in-time snapshot of overlapping bookings.
// It is not kept in sync with bookings created later.
type ConflictStatus struct {
	HasConflict         bool       `json:"hasConflict"`
	ConflictingBookings []int64    `json:"conflictingBookings"`
	Resolved            bool       `json:"resolved"`
	Notes               string     `json:"notes,omitempty"`
	CheckedAt           *time.Time `json:"checkedAt,omitempty"`
}

// Verification check-in/check-out trail
type Verification struct {
	CheckedIn    bool       `json:"checkedIn"`
	CheckedInAt  *time.Time `json:"checkedInAt,omitempty"`
	CheckedInBy  *int64     `json:"checkedInBy,omitempty"`
	CheckedOut   bool       `json:"checkedOut"`
	CheckedOutAt *time.Time `json:"checkedOutAt,omitempty"`
	CheckedOutBy *int64     `json:"checkedOutBy,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

// Metadata audit context of the creating request
type Metadata struct {
	Source    Source `json:"source"`
	IPAddress string `json:"ipAddress,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// Recurrence stored descriptor; never expanded into occurrences
type Recurrence struct {
	Pattern string     `json:"pattern"`
	EndDate *time.Time `json:"endDate,omitempty"`
}

// Booking represents a reservation of a resource for a time interval
type Booking struct {
	ID              int64
	UserID          int64
	ResourceID      int64
	Title           string
	Description     *string
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
	Status          BookingStatus
	Priority        Priority
	Recurrence      *Recurrence
	ConflictStatus  ConflictStatus
	Verification    Verification
	Metadata        Metadata
	Notes           *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the booked [StartTime, EndTime)
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// IsActive returns true if the booking occupies its resource
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// IsOwnedBy reports whether userID created the booking
func (b *Booking) IsOwnedBy(userID int64) bool {
	return b.UserID == userID
}

// Normalize recomputes the derived duration and validates the interval invariants.
// Called before every persist.
func (b *Booking) Normalize() error {
	if !b.EndTime.After(b.StartTime) {
		return ErrEndBeforeStart
	}
	b.DurationMinutes = b.Interval().DurationMinutes()
	if b.DurationMinutes < MinBookingDurationMinutes || b.DurationMinutes > MaxBookingDurationMinutes {
		return fmt.Errorf("%w: %d minutes, allowed %d-%d",
			ErrDurationOutOfBounds, b.DurationMinutes, MinBookingDurationMinutes, MaxBookingDurationMinutes)
	}
	return nil
}

// BookingsFilter фильтр для получения списка бронирований
type BookingsFilter struct {
	UserID     *int64          // Только бронирования пользователя (опционально)
	ResourceID *int64          // Фильтр по ресурсу (опционально)
	Statuses   []BookingStatus // Пусто = все статусы
	From       *time.Time      // Бронирования, заканчивающиеся после From
	To         *time.Time      // Бронирования, начинающиеся до To
	Limit      int
	Offset     int
}
