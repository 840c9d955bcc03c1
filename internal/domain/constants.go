package domain

// Booking policy defaults, applied when a resource leaves the field unset (zero)
const (
	DefaultAdvanceBookingDays    = 30
	DefaultMinBookingNoticeHours = 1
	DefaultMaxConcurrentBookings = 1
	DefaultMaxBookingHours       = 4
)

// Business validation constants
const (
	MinBookingDurationMinutes = 15
	MaxBookingDurationMinutes = 1440 // 24 hours

	MinResourceNameLength  = 2
	MaxResourceNameLength  = 100
	MinAdvanceBookingDays  = 1
	MaxAdvanceBookingDays  = 365
	MinMaxBookingHours     = 1
	MaxMaxBookingHours     = 24
	MinConcurrentBookings  = 1
	MaxTitleLength         = 200
	MaxDescriptionLength   = 1000
	MaxNotesLength         = 500
	MaxCancelReasonLength  = 500
	DefaultSlotDuration    = 60
	MaxAlternativeSlots    = 3
	MaxAlternativeDayShift = 5
	MaxAlternativeResource = 5
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, которые занимают ресурс и участвуют в поиске конфликтов
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusActive,
}
