package get_available_slots

import (
	"time"

	"github.com/m04kA/HMS-BookingService/internal/domain"
)

// buildSlots строит полную сетку каталога на дату
// Слот доступен, если он еще бронируем по времени (дата не в прошлом,
// для сегодняшней даты соблюден запас до начала) и не занят
func buildSlots(date, now time.Time, occupied []*domain.Booking) []Slot {
	bookable := make(map[int]bool, len(domain.SlotCatalog()))
	for _, slot := range domain.AvailableSlotsForDate(date, now) {
		bookable[slot.Minutes()] = true
	}

	occupiedMinutes := make(map[int]bool, len(occupied))
	for _, booking := range occupied {
		occupiedMinutes[booking.SlotTime.Minutes()] = true
	}

	catalog := domain.SlotCatalog()
	slots := make([]Slot, 0, len(catalog))
	for _, slot := range catalog {
		slots = append(slots, Slot{
			Time:      slot.String(),
			Available: bookable[slot.Minutes()] && !occupiedMinutes[slot.Minutes()],
		})
	}

	return slots
}

// unavailableSlots возвращает полную сетку каталога без доступных слотов
// Используется, когда исполнитель не принимает заявки на дату
func unavailableSlots() []Slot {
	catalog := domain.SlotCatalog()
	slots := make([]Slot, 0, len(catalog))
	for _, slot := range catalog {
		slots = append(slots, Slot{Time: slot.String(), Available: false})
	}
	return slots
}
