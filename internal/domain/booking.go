package domain

import (
	"time"

	"github.com/m04kA/HMS-BookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusRejected  BookingStatus = "rejected"
	StatusCompleted BookingStatus = "completed"
)

// Booking represents a client's request for a provider's service at a date+slot
type Booking struct {
	ID         int64
	ProviderID int64
	ClientID   int64

	BookingDate time.Time      // Дата услуги без компонента времени
	SlotTime    types.SlotTime // Метка слота из каталога, например "10:00 AM"

	Status BookingStatus
	Notes  *string // Причина отклонения/отмены, заполняется при переходе в rejected

	CompletedAt *time.Time // Устанавливается только при переходе в completed

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true if no further guarded transition is permitted
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusRejected || b.Status == StatusCompleted
}

// CanBeConfirmed returns true if the booking can be confirmed by the provider
func (b *Booking) CanBeConfirmed() bool {
	return b.Status == StatusPending
}

// CanBeRejected returns true if the booking can be rejected by the provider
func (b *Booking) CanBeRejected() bool {
	return b.Status == StatusPending
}

// CanBeCancelled returns true if the booking can be cancelled after confirmation
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusConfirmed
}

// CanBeCompleted returns true if the booking is in a state that allows completion
// The service window guard is checked separately via ServiceWindowElapsed
func (b *Booking) CanBeCompleted() bool {
	return b.Status == StatusConfirmed
}

// ServiceWindowElapsed returns true if the scheduled slot plus the service
// duration has already passed relative to now
// Завершать бронирование можно только после окончания окна услуги
func (b *Booking) ServiceWindowElapsed(now time.Time) bool {
	end := time.Date(
		b.BookingDate.Year(), b.BookingDate.Month(), b.BookingDate.Day(),
		0, 0, 0, 0, now.Location(),
	).Add(time.Duration(b.SlotTime.Minutes()+ServiceDurationMinutes) * time.Minute)

	return !end.After(now)
}

// OccupiesSlot reports whether the booking blocks its (provider, date, slot)
// tuple for new bookings. In-memory mirror of the status filter the booking
// repository applies in GetByProviderAndDate: both must implement the same
// occupancy policy
// При rejectedFreesSlot=true отклонённые бронирования освобождают слот
func (b *Booking) OccupiesSlot(rejectedFreesSlot bool) bool {
	if rejectedFreesSlot && b.Status == StatusRejected {
		return false
	}
	return true
}

// ProviderBookingsFilter фильтр для получения бронирований исполнителя
type ProviderBookingsFilter struct {
	ProviderID      int64          // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeRejected bool           // Включать ли отклонённые бронирования
	SortDescending  bool           // Сортировка по дате и слоту: false - ASC, true - DESC
}
