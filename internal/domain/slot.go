package domain

import (
	"time"

	"github.com/m04kA/HMS-BookingService/pkg/types"
)

// slotCatalogMinutes фиксированный каталог слотов: 9:00 AM - 4:00 PM с шагом в час
var slotCatalogMinutes = []int{
	9 * 60,  // 9:00 AM
	10 * 60, // 10:00 AM
	11 * 60, // 11:00 AM
	12 * 60, // 12:00 PM
	13 * 60, // 1:00 PM
	14 * 60, // 2:00 PM
	15 * 60, // 3:00 PM
	16 * 60, // 4:00 PM
}

// SlotCatalog возвращает полный упорядоченный каталог слотов
func SlotCatalog() []types.SlotTime {
	catalog := make([]types.SlotTime, len(slotCatalogMinutes))
	for i, m := range slotCatalogMinutes {
		slot, _ := types.NewSlotTimeFromMinutes(m)
		catalog[i] = slot
	}
	return catalog
}

// IsCatalogSlot reports whether the given time is one of the catalog labels
func IsCatalogSlot(t types.SlotTime) bool {
	for _, m := range slotCatalogMinutes {
		if t.Minutes() == m {
			return true
		}
	}
	return false
}

// AvailableSlotsForDate возвращает подмножество каталога, допустимое для даты
// - дата в будущем: весь каталог в порядке каталога
// - дата сегодня: только слоты, начинающиеся строго позже now + MinBookingNoticeMinutes
// - дата в прошлом: пустой список
// Операция чистая, состояния не изменяет
func AvailableSlotsForDate(date time.Time, now time.Time) []types.SlotTime {
	if IsDateInPast(date, now) {
		return []types.SlotTime{}
	}

	catalog := SlotCatalog()
	if !IsSameDay(date, now) {
		return catalog
	}

	// Бронирование на сегодня: соблюдаем минимальный запас времени
	threshold := now.Hour()*60 + now.Minute() + MinBookingNoticeMinutes

	available := make([]types.SlotTime, 0, len(catalog))
	for _, slot := range catalog {
		if slot.Minutes() > threshold {
			available = append(available, slot)
		}
	}

	return available
}

// IsSameDay проверяет, что две даты относятся к одному и тому же дню
func IsSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func IsDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
