package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/HMS-BookingService/internal/domain"
	"github.com/m04kA/HMS-BookingService/internal/integrations/providerservice"
	"github.com/m04kA/HMS-BookingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.ProviderID <= 0 {
		return fmt.Errorf("%w: providerID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateSlot проверяет, что время входит в фиксированный каталог слотов
func validateSlot(slot types.SlotTime) error {
	if !domain.IsCatalogSlot(slot) {
		return ErrInvalidSlot
	}
	return nil
}

// validateDate проверяет, что дата не в прошлом
func validateDate(bookingDate, now time.Time) error {
	if domain.IsDateInPast(bookingDate, now) {
		return ErrInvalidDate
	}
	return nil
}

// validateLeadTime проверяет минимальное время до начала слота
// Для сегодняшней даты слот должен начинаться строго позже, чем
// текущее время плюс minBookingNoticeMinutes
func validateLeadTime(bookingDate time.Time, slot types.SlotTime, now time.Time) error {
	if !domain.IsSameDay(bookingDate, now) {
		return nil
	}

	nowMinutes := now.Hour()*60 + now.Minute()
	if slot.Minutes() <= nowMinutes+domain.MinBookingNoticeMinutes {
		return fmt.Errorf("%w: must book at least %d minutes in advance",
			ErrTooLateToBook, domain.MinBookingNoticeMinutes)
	}

	return nil
}

// validateProvider проверяет, что исполнитель может принимать заявки
// на указанную дату
func validateProvider(provider *providerservice.Provider, bookingDate time.Time) error {
	if !provider.Approved || !provider.Active {
		return fmt.Errorf("%w: provider is not approved or inactive", ErrProviderUnavailable)
	}

	availableFrom, hasLimit, err := provider.AvailableFromDate()
	if err != nil {
		return fmt.Errorf("%w: invalid provider available_from date: %v", ErrInternal, err)
	}
	if hasLimit && domain.IsDateInPast(bookingDate, availableFrom) {
		return fmt.Errorf("%w: provider accepts bookings from %s",
			ErrProviderUnavailable, availableFrom.Format(domain.DateFormat))
	}

	return nil
}

// isSlotOccupied проверяет, занят ли слот среди бронирований даты
// Список уже отфильтрован репозиторием согласно политике rejected-слотов
func isSlotOccupied(slot types.SlotTime, bookings []*domain.Booking) bool {
	for _, booking := range bookings {
		if booking.SlotTime.Equal(slot) {
			return true
		}
	}
	return false
}
