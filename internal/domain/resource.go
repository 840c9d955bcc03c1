package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/campus-booking/pkg/types"
)

// ResourceType categorical tag used for alternative matching
type ResourceType string

const (
	ResourceRoom       ResourceType = "room"
	ResourceLab        ResourceType = "lab"
	ResourceEquipment  ResourceType = "equipment"
	ResourceAuditorium ResourceType = "auditorium"
	ResourceStudio     ResourceType = "studio"
	ResourceWorkshop   ResourceType = "workshop"
)

// ResourceTypes known resource types in display order
func ResourceTypes() []ResourceType {
	return []ResourceType{ResourceRoom, ResourceLab, ResourceEquipment, ResourceAuditorium, ResourceStudio, ResourceWorkshop}
}

// IsValid reports whether the type is one of the known resource types
func (t ResourceType) IsValid() bool {
	switch t {
	case ResourceRoom, ResourceLab, ResourceEquipment, ResourceAuditorium, ResourceStudio, ResourceWorkshop:
		return true
	}
	return false
}

// Weekday lower-case English day name used as the availability key
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// WeekdayOf converts a time.Weekday into the availability key
func WeekdayOf(d time.Weekday) Weekday {
	return Weekday(strings.ToLower(d.String()))
}

// IsValid reports whether the day is one of the seven known days
func (d Weekday) IsValid() bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

// Window contiguous enabled time range within one day, [Start, End)
type Window struct {
	Start types.TimeString `json:"start"`
	End   types.TimeString `json:"end"`
}

// Contains reports whether [start, end] lies entirely inside the window
func (w Window) Contains(start, end types.TimeString) bool {
	return start >= w.Start && end <= w.End
}

// DayAvailability windows of a single weekday
type DayAvailability struct {
	Enabled bool     `json:"enabled"`
	Windows []Window `json:"windows"`
}

// WeeklyAvailability static weekly schedule of a resource
type WeeklyAvailability map[Weekday]DayAvailability

// BookingRestrictions temporal policy of a resource
type BookingRestrictions struct {
	AdvanceBookingDays    int `json:"advanceBookingDays"`
	MinBookingNoticeHours int `json:"minBookingNoticeHours"`
	MaxConcurrentBookings int `json:"maxConcurrentBookings"`
}

// EffectiveAdvanceBookingDays returns the advance window, falling back to the default when unset
func (r BookingRestrictions) EffectiveAdvanceBookingDays() int {
	if r.AdvanceBookingDays <= 0 {
		return DefaultAdvanceBookingDays
	}
	return r.AdvanceBookingDays
}

// EffectiveMinBookingNoticeHours returns the notice period, falling back to the default when unset
func (r BookingRestrictions) EffectiveMinBookingNoticeHours() int {
	if r.MinBookingNoticeHours <= 0 {
		return DefaultMinBookingNoticeHours
	}
	return r.MinBookingNoticeHours
}

// Resource represents a bookable campus asset
type Resource struct {
	ID                  int64
	Name                string
	Type                ResourceType
	Description         *string
	Location            *string
	Capacity            int
	Timezone            *string // IANA name; nil = service default
	WeeklyAvailability  WeeklyAvailability
	BookingRestrictions BookingRestrictions
	RequiresApproval    bool
	MaxBookingHours     int // advisory, not enforced against duration bounds
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsWithinAvailability reports whether [start, end] on the given day fits entirely inside
// a single enabled window. A slot spanning two adjacent windows is rejected.
func (r *Resource) IsWithinAvailability(day Weekday, start, end types.TimeString) bool {
	avail, ok := r.WeeklyAvailability[day]
	if !ok || !avail.Enabled {
		return false
	}
	for _, w := range avail.Windows {
		if w.Contains(start, end) {
			return true
		}
	}
	return false
}

// TimeLocation returns the resource's time zone, or fallback when unset or unknown
func (r *Resource) TimeLocation(fallback *time.Location) *time.Location {
	if r.Timezone == nil || *r.Timezone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(*r.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}

// InitialStatus status of a freshly accepted booking on this resource
func (r *Resource) InitialStatus() BookingStatus {
	if r.RequiresApproval {
		return StatusPending
	}
	return StatusConfirmed
}

// Validate checks resource fields and normalizes window order
func (r *Resource) Validate() error {
	name := strings.TrimSpace(r.Name)
	if len(name) < MinResourceNameLength || len(name) > MaxResourceNameLength {
		return fmt.Errorf("name must be %d-%d characters", MinResourceNameLength, MaxResourceNameLength)
	}
	if !r.Type.IsValid() {
		return fmt.Errorf("unknown resource type %q", r.Type)
	}
	if r.Capacity < 0 {
		return fmt.Errorf("capacity must not be negative")
	}
	if r.Timezone != nil && *r.Timezone != "" {
		if _, err := time.LoadLocation(*r.Timezone); err != nil {
			return fmt.Errorf("unknown timezone %q", *r.Timezone)
		}
	}
	if err := r.WeeklyAvailability.Validate(); err != nil {
		return err
	}

	restrictions := r.BookingRestrictions
	if restrictions.AdvanceBookingDays != 0 &&
		(restrictions.AdvanceBookingDays < MinAdvanceBookingDays || restrictions.AdvanceBookingDays > MaxAdvanceBookingDays) {
		return fmt.Errorf("advanceBookingDays must be %d-%d", MinAdvanceBookingDays, MaxAdvanceBookingDays)
	}
	if restrictions.MinBookingNoticeHours < 0 {
		return fmt.Errorf("minBookingNoticeHours must not be negative")
	}
	if restrictions.MaxConcurrentBookings != 0 && restrictions.MaxConcurrentBookings < MinConcurrentBookings {
		return fmt.Errorf("maxConcurrentBookings must be at least %d", MinConcurrentBookings)
	}
	if r.MaxBookingHours != 0 && (r.MaxBookingHours < MinMaxBookingHours || r.MaxBookingHours > MaxMaxBookingHours) {
		return fmt.Errorf("maxBookingHours must be %d-%d", MinMaxBookingHours, MaxMaxBookingHours)
	}
	return nil
}

// Validate checks every day: known day name, canonical HH:MM, start < end,
// windows sorted by start and non-overlapping. Windows are sorted in place.
func (a WeeklyAvailability) Validate() error {
	for day, avail := range a {
		if !day.IsValid() {
			return fmt.Errorf("unknown weekday %q", day)
		}
		for _, w := range avail.Windows {
			if err := w.Start.Validate(); err != nil {
				return fmt.Errorf("%s: window start: %v", day, err)
			}
			if err := w.End.Validate(); err != nil {
				return fmt.Errorf("%s: window end: %v", day, err)
			}
			if !w.Start.IsBefore(w.End) {
				return fmt.Errorf("%s: window %s-%s: start must be before end", day, w.Start, w.End)
			}
		}
		sort.Slice(avail.Windows, func(i, j int) bool {
			return avail.Windows[i].Start.IsBefore(avail.Windows[j].Start)
		})
		for i := 1; i < len(avail.Windows); i++ {
			if avail.Windows[i].Start.IsBefore(avail.Windows[i-1].End) {
				return fmt.Errorf("%s: windows %s-%s and %s-%s overlap", day,
					avail.Windows[i-1].Start, avail.Windows[i-1].End, avail.Windows[i].Start, avail.Windows[i].End)
			}
		}
	}
	return nil
}

// ResourceFilter фильтр списка ресурсов
type ResourceFilter struct {
	Type       *ResourceType
	ActiveOnly bool
	Limit      int
	Offset     int
}

// LocalSlot derives the weekday and HH:MM bounds of interval in loc.
// ok is false when the interval does not start and end on the same local calendar day.
func LocalSlot(interval Interval, loc *time.Location) (day Weekday, start, end types.TimeString, ok bool) {
	s, e := interval.Start.In(loc), interval.End.In(loc)
	sy, sm, sd := s.Date()
	ey, em, ed := e.Date()
	if sy != ey || sm != em || sd != ed {
		return "", "", "", false
	}
	return WeekdayOf(s.Weekday()), types.NewTimeString(s), types.NewTimeString(e), true
}

// AcceptsInterval reports whether interval, read in the resource's local time, fits one window
func (r *Resource) AcceptsInterval(interval Interval, fallback *time.Location) bool {
	day, start, end, ok := LocalSlot(interval, r.TimeLocation(fallback))
	if !ok {
		return false
	}
	return r.IsWithinAvailability(day, start, end)
}
