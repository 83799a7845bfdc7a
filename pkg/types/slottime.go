package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidSlotTime возвращается при некорректном формате времени слота
	ErrInvalidSlotTime = errors.New("types: invalid slot time format")

	// ErrMinutesOutOfRange возвращается, когда результат выходит за пределы суток
	ErrMinutesOutOfRange = errors.New("types: minutes out of day range")
)

// SlotTime время слота в пределах суток
// Хранится как минуты с полуночи, парсится один раз на границе из 12-часовой
// метки вида "10:00 AM". "12:00 AM" соответствует 0 минут, "12:00 PM" - 720.
type SlotTime struct {
	minutes int
}

// NewSlotTime создает SlotTime из времени по настенным часам (минуты с полуночи)
func NewSlotTime(t time.Time) SlotTime {
	return SlotTime{minutes: t.Hour()*60 + t.Minute()}
}

// NewSlotTimeFromMinutes создает SlotTime из минут с полуночи
func NewSlotTimeFromMinutes(minutes int) (SlotTime, error) {
	if minutes < 0 || minutes >= 24*60 {
		return SlotTime{}, fmt.Errorf("%w: %d", ErrMinutesOutOfRange, minutes)
	}
	return SlotTime{minutes: minutes}, nil
}

// ParseSlotTime парсит 12-часовую метку вида "9:00 AM" или "12:30 PM"
// Допустимы только часы 1-12; минуты 00-59
func ParseSlotTime(label string) (SlotTime, error) {
	parts := strings.Fields(strings.TrimSpace(label))
	if len(parts) != 2 {
		return SlotTime{}, fmt.Errorf("%w: %q", ErrInvalidSlotTime, label)
	}

	meridiem := strings.ToUpper(parts[1])
	if meridiem != "AM" && meridiem != "PM" {
		return SlotTime{}, fmt.Errorf("%w: %q", ErrInvalidSlotTime, label)
	}

	hm := strings.Split(parts[0], ":")
	if len(hm) != 2 {
		return SlotTime{}, fmt.Errorf("%w: %q", ErrInvalidSlotTime, label)
	}

	hour, err := strconv.Atoi(hm[0])
	if err != nil || hour < 1 || hour > 12 {
		return SlotTime{}, fmt.Errorf("%w: %q", ErrInvalidSlotTime, label)
	}

	minute, err := strconv.Atoi(hm[1])
	if err != nil || len(hm[1]) != 2 || minute < 0 || minute > 59 {
		return SlotTime{}, fmt.Errorf("%w: %q", ErrInvalidSlotTime, label)
	}

	// 12 AM - полночь, 12 PM - полдень
	if hour == 12 {
		hour = 0
	}
	if meridiem == "PM" {
		hour += 12
	}

	return SlotTime{minutes: hour*60 + minute}, nil
}

// Minutes возвращает минуты с полуночи
func (s SlotTime) Minutes() int {
	return s.minutes
}

// AddMinutes возвращает время, сдвинутое на n минут вперед
// Возвращает ошибку при выходе за пределы суток
func (s SlotTime) AddMinutes(n int) (SlotTime, error) {
	return NewSlotTimeFromMinutes(s.minutes + n)
}

// IsBefore строго раньше другого времени
func (s SlotTime) IsBefore(other SlotTime) bool {
	return s.minutes < other.minutes
}

// IsAfter строго позже другого времени
func (s SlotTime) IsAfter(other SlotTime) bool {
	return s.minutes > other.minutes
}

// Equal совпадает с другим временем
func (s SlotTime) Equal(other SlotTime) bool {
	return s.minutes == other.minutes
}

// String возвращает 12-часовую метку вида "10:00 AM"
func (s SlotTime) String() string {
	hour := s.minutes / 60
	minute := s.minutes % 60

	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}

	display := hour % 12
	if display == 0 {
		display = 12
	}

	return fmt.Sprintf("%d:%02d %s", display, minute, meridiem)
}

// Value сериализует SlotTime в текстовую метку для хранения в БД
func (s SlotTime) Value() (driver.Value, error) {
	return s.String(), nil
}

// Scan десериализует SlotTime из текстовой метки БД
func (s *SlotTime) Scan(src interface{}) error {
	var label string
	switch v := src.(type) {
	case string:
		label = v
	case []byte:
		label = string(v)
	default:
		return fmt.Errorf("%w: unsupported source type %T", ErrInvalidSlotTime, src)
	}

	parsed, err := ParseSlotTime(label)
	if err != nil {
		return err
	}

	*s = parsed
	return nil
}
