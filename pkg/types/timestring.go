package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Layout формат времени слота в 12-часовом представлении (например, "10:00 AM")
const Layout = "3:04 PM"

var (
	// ErrInvalidFormat возвращается при некорректном формате строки времени
	ErrInvalidFormat = errors.New("types: invalid time string format")

	// ErrOutOfRange возвращается, когда результат арифметики выходит за пределы суток
	ErrOutOfRange = errors.New("types: time out of day range")
)

// TimeString строковое представление времени суток в 12-часовом формате.
// Используется как метка слота в расписании и как значение колонки time_slot.
type TimeString string

// NewTimeString создает TimeString из time.Time (секунды отбрасываются)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(Layout))
}

// NewTimeStringFromString парсит и нормализует строку времени.
// Принимает "10:00 AM", "7:30 pm" и т.п., возвращает каноническую форму.
func NewTimeStringFromString(s string) (TimeString, error) {
	t, err := time.Parse(Layout, strings.ToUpper(strings.TrimSpace(s)))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return TimeString(t.Format(Layout)), nil
}

// NewTimeStringFromMinutes создает TimeString из количества минут с начала суток
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes >= 24*60 {
		return "", fmt.Errorf("%w: %d minutes", ErrOutOfRange, minutes)
	}
	t := time.Date(0, 1, 1, minutes/60, minutes%60, 0, 0, time.UTC)
	return TimeString(t.Format(Layout)), nil
}

// Minutes возвращает количество минут с начала суток
func (ts TimeString) Minutes() (int, error) {
	t, err := time.Parse(Layout, string(ts))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, string(ts))
	}
	return t.Hour()*60 + t.Minute(), nil
}

// AddMinutes возвращает время, сдвинутое на указанное количество минут вперед
func (ts TimeString) AddMinutes(minutes int) (TimeString, error) {
	m, err := ts.Minutes()
	if err != nil {
		return "", err
	}
	return NewTimeStringFromMinutes(m + minutes)
}

// IsBefore возвращает true, если ts строго раньше other.
// Непарсящиеся значения считаются несравнимыми и дают false.
func (ts TimeString) IsBefore(other TimeString) bool {
	a, err1 := ts.Minutes()
	b, err2 := other.Minutes()
	if err1 != nil || err2 != nil {
		return false
	}
	return a < b
}

// IsAfter возвращает true, если ts строго позже other
func (ts TimeString) IsAfter(other TimeString) bool {
	a, err1 := ts.Minutes()
	b, err2 := other.Minutes()
	if err1 != nil || err2 != nil {
		return false
	}
	return a > b
}

// IsZero возвращает true для пустого значения
func (ts TimeString) IsZero() bool {
	return ts == ""
}

// Validate проверяет, что значение парсится в каноническом формате
func (ts TimeString) Validate() error {
	_, err := ts.Minutes()
	return err
}

// String возвращает строковое представление
func (ts TimeString) String() string {
	return string(ts)
}

// Value реализация driver.Valuer для записи в БД
func (ts TimeString) Value() (driver.Value, error) {
	return string(ts), nil
}

// Scan реализация sql.Scanner для чтения из БД
func (ts *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*ts = TimeString(v)
		return nil
	case []byte:
		*ts = TimeString(v)
		return nil
	case nil:
		*ts = ""
		return nil
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidFormat, src)
	}
}
