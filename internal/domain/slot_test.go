package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HMS-BookingService/pkg/types"
)

func TestSlotCatalog(t *testing.T) {
	catalog := SlotCatalog()
	require.Len(t, catalog, 8)

	assert.Equal(t, "9:00 AM", catalog[0].String())
	assert.Equal(t, "12:00 PM", catalog[3].String())
	assert.Equal(t, "4:00 PM", catalog[7].String())

	// Каталог строго возрастает с шагом в час
	for i := 1; i < len(catalog); i++ {
		assert.Equal(t, 60, catalog[i].Minutes()-catalog[i-1].Minutes())
	}
}

func TestIsCatalogSlot(t *testing.T) {
	for _, slot := range SlotCatalog() {
		assert.True(t, IsCatalogSlot(slot), slot.String())
	}

	halfPast, err := types.NewSlotTimeFromMinutes(9*60 + 30)
	require.NoError(t, err)
	assert.False(t, IsCatalogSlot(halfPast))

	early, err := types.NewSlotTimeFromMinutes(8 * 60)
	require.NoError(t, err)
	assert.False(t, IsCatalogSlot(early))

	late, err := types.NewSlotTimeFromMinutes(17 * 60)
	require.NoError(t, err)
	assert.False(t, IsCatalogSlot(late))
}

func TestAvailableSlotsForDate_FutureDate(t *testing.T) {
	now := time.Date(2025, 11, 15, 14, 0, 0, 0, time.UTC)
	future := time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)

	slots := AvailableSlotsForDate(future, now)
	assert.Len(t, slots, 8)
}

func TestAvailableSlotsForDate_PastDate(t *testing.T) {
	now := time.Date(2025, 11, 15, 10, 0, 0, 0, time.UTC)
	past := time.Date(2025, 11, 14, 0, 0, 0, 0, time.UTC)

	slots := AvailableSlotsForDate(past, now)
	assert.Empty(t, slots)
}

func TestAvailableSlotsForDate_TodayLeadTime(t *testing.T) {
	today := time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		hour   int
		minute int
		want   []string
	}{
		{
			// В 14:30 порог 15:30: остается только 4:00 PM
			name: "mid afternoon", hour: 14, minute: 30,
			want: []string{"4:00 PM"},
		},
		{
			// Ровно в 14:00 порог 15:00: слот 3:00 PM не проходит строгое сравнение
			name: "on the hour boundary", hour: 14, minute: 0,
			want: []string{"4:00 PM"},
		},
		{
			// В 15:01 порог 16:01: бронировать уже нечего
			name: "too late in the day", hour: 15, minute: 1,
			want: []string{},
		},
		{
			// Ранним утром доступен весь каталог
			name: "early morning", hour: 7, minute: 0,
			want: []string{"9:00 AM", "10:00 AM", "11:00 AM", "12:00 PM", "1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Date(2025, 11, 15, tt.hour, tt.minute, 0, 0, time.UTC)
			slots := AvailableSlotsForDate(today, now)

			labels := make([]string, 0, len(slots))
			for _, slot := range slots {
				labels = append(labels, slot.String())
			}
			assert.Equal(t, tt.want, labels)
		})
	}
}

func TestIsSameDay(t *testing.T) {
	morning := time.Date(2025, 11, 15, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 11, 15, 23, 59, 0, 0, time.UTC)
	nextDay := time.Date(2025, 11, 16, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsSameDay(morning, evening))
	assert.False(t, IsSameDay(evening, nextDay))
}

func TestIsDateInPast(t *testing.T) {
	now := time.Date(2025, 11, 15, 12, 0, 0, 0, time.UTC)

	assert.True(t, IsDateInPast(time.Date(2025, 11, 14, 23, 0, 0, 0, time.UTC), now))
	// Сегодняшний день прошлым не считается
	assert.False(t, IsDateInPast(time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, IsDateInPast(time.Date(2025, 11, 16, 0, 0, 0, 0, time.UTC), now))
}
