package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidTimeString возвращается при некорректном формате времени
	ErrInvalidTimeString = errors.New("invalid time string format")

	// ErrTimeOverflow возвращается, когда результат выходит за пределы суток
	ErrTimeOverflow = errors.New("time string overflows the day")
)

const minutesPerDay = 24 * 60

// TimeString время суток в каноническом формате HH:MM (24 часа, с ведущими нулями).
// Каноничность гарантирует, что лексикографическое сравнение совпадает с хронологическим.
type TimeString string

// NewTimeString возвращает время суток из time.Time (в его собственной локации)
func NewTimeString(t time.Time) TimeString {
	return fromMinutes(t.Hour()*60 + t.Minute())
}

// NewTimeStringFromString разбирает строку "H:MM" или "HH:MM" и приводит её к виду HH:MM
func NewTimeStringFromString(s string) (TimeString, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) < 1 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	return fromMinutes(hours*60 + minutes), nil
}

// MustTimeString как NewTimeStringFromString, но паникует при ошибке. Только для констант и тестов.
func MustTimeString(s string) TimeString {
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return ts
}

func fromMinutes(total int) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60))
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет, что значение находится в каноническом формате
func (t TimeString) Validate() error {
	parsed, err := NewTimeStringFromString(string(t))
	if err != nil {
		return err
	}
	if parsed != t {
		return fmt.Errorf("%w: %q is not zero-padded", ErrInvalidTimeString, string(t))
	}
	return nil
}

// Minutes возвращает количество минут от начала суток
func (t TimeString) Minutes() int {
	parsed, err := NewTimeStringFromString(string(t))
	if err != nil {
		return 0
	}
	h, _ := strconv.Atoi(string(parsed[:2]))
	m, _ := strconv.Atoi(string(parsed[3:]))
	return h*60 + m
}

// AddMinutes возвращает время, сдвинутое на n минут. Переход через полночь считается ошибкой.
func (t TimeString) AddMinutes(n int) (TimeString, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	total := t.Minutes() + n
	if total < 0 || total >= minutesPerDay {
		return "", fmt.Errorf("%w: %s%+d min", ErrTimeOverflow, t, n)
	}
	return fromMinutes(total), nil
}

// IsBefore строго раньше
func (t TimeString) IsBefore(other TimeString) bool {
	return t < other
}

// IsAfter строго позже
func (t TimeString) IsAfter(other TimeString) bool {
	return t > other
}

// OnDate возвращает момент времени на указанную календарную дату в локации loc
func (t TimeString) OnDate(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	minutes := t.Minutes()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, loc)
}

func (t TimeString) String() string {
	return string(t)
}

// UnmarshalJSON принимает строку времени и приводит её к каноническому виду
func (t *TimeString) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewTimeStringFromString(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
