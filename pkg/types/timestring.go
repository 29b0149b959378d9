package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const (
	// MinutesPerDay количество минут в сутках. TimeString не представляет 24:00,
	// последнее допустимое время 23:59
	MinutesPerDay = 24 * 60

	timeLayout = "15:04"
)

// ErrInvalidTimeString базовая ошибка разбора времени, оборачивается в ParseError
var ErrInvalidTimeString = errors.New("types: invalid time string")

// ParseError ошибка разбора строки времени "HH:MM"
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v %q: %s", ErrInvalidTimeString, e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrInvalidTimeString
}

// TimeString время суток в формате "HH:MM" (24h), точность до минуты.
// Нулевое значение ("") означает "время не задано".
type TimeString string

// NewTimeStringFromString разбирает и валидирует строку "HH:MM".
// Формат "HH:MM:SS" тоже принимается (так время возвращает PostgreSQL), секунды должны быть нулевыми.
func NewTimeStringFromString(s string) (TimeString, error) {
	minutes, err := parseMinutes(s)
	if err != nil {
		return "", err
	}
	return fromMinutes(minutes), nil
}

// NewTimeString берёт часы и минуты из time.Time
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromMinutes строит время из количества минут от полуночи
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes >= MinutesPerDay {
		return "", &ParseError{Input: fmt.Sprintf("%d", minutes), Reason: "minutes out of range [0, 1440)"}
	}
	return fromMinutes(minutes), nil
}

// MustTimeString паникует при ошибке, используется в тестах и константах
func MustTimeString(s string) TimeString {
	t, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Minutes возвращает количество минут от полуночи
func (t TimeString) Minutes() (int, error) {
	return parseMinutes(string(t))
}

// AddMinutes прибавляет минуты, результат должен остаться в пределах суток
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	current, err := t.Minutes()
	if err != nil {
		return "", err
	}
	return NewTimeStringFromMinutes(current + minutes)
}

// IsBefore строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t < other
}

// IsAfter строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t > other
}

func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет формат и диапазон
func (t TimeString) Validate() error {
	_, err := parseMinutes(string(t))
	return err
}

func (t TimeString) String() string {
	return string(t)
}

// OnDate возвращает момент времени t в дату date (в локации date)
func (t TimeString) OnDate(date time.Time) (time.Time, error) {
	minutes, err := t.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, date.Location()), nil
}

// Scan реализует sql.Scanner. lib/pq отдаёт колонку TIME как time.Time
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case string:
		parsed, err := NewTimeStringFromString(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		parsed, err := NewTimeStringFromString(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeString, src)
	}
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}

func fromMinutes(minutes int) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60))
}

func parseMinutes(s string) (int, error) {
	switch len(s) {
	case 5:
	case 8:
		if s[5] != ':' {
			return 0, &ParseError{Input: s, Reason: "expected HH:MM"}
		}
		sec, ok := twoDigits(s[6:8])
		if !ok || sec != 0 {
			return 0, &ParseError{Input: s, Reason: "seconds are not supported"}
		}
	default:
		return 0, &ParseError{Input: s, Reason: "expected HH:MM"}
	}

	if s[2] != ':' {
		return 0, &ParseError{Input: s, Reason: "expected HH:MM"}
	}

	hour, ok := twoDigits(s[0:2])
	if !ok {
		return 0, &ParseError{Input: s, Reason: "hour is not a number"}
	}
	minute, ok := twoDigits(s[3:5])
	if !ok {
		return 0, &ParseError{Input: s, Reason: "minute is not a number"}
	}
	if hour > 23 {
		return 0, &ParseError{Input: s, Reason: "hour must be in range 00-23"}
	}
	if minute > 59 {
		return 0, &ParseError{Input: s, Reason: "minute must be in range 00-59"}
	}

	return hour*60 + minute, nil
}

func twoDigits(s string) (int, bool) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}
