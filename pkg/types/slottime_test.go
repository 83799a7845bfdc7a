package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlotTime(t *testing.T) {
	tests := []struct {
		name        string
		label       string
		wantMinutes int
	}{
		{name: "morning slot", label: "9:00 AM", wantMinutes: 540},
		{name: "last catalog slot", label: "4:00 PM", wantMinutes: 960},
		{name: "noon", label: "12:00 PM", wantMinutes: 720},
		{name: "midnight", label: "12:00 AM", wantMinutes: 0},
		{name: "with minutes", label: "2:30 PM", wantMinutes: 870},
		{name: "lowercase meridiem", label: "10:00 am", wantMinutes: 600},
		{name: "surrounding whitespace", label: "  11:00 AM  ", wantMinutes: 660},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSlotTime(tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMinutes, got.Minutes())
		})
	}
}

func TestParseSlotTime_Invalid(t *testing.T) {
	labels := []string{
		"",
		"10:00",
		"10 AM",
		"25:00 AM",
		"0:30 PM",
		"13:00 PM",
		"10:5 AM",
		"10:60 AM",
		"10:00 XM",
		"ten o'clock AM",
	}

	for _, label := range labels {
		t.Run(label, func(t *testing.T) {
			_, err := ParseSlotTime(label)
			assert.ErrorIs(t, err, ErrInvalidSlotTime)
		})
	}
}

func TestSlotTime_String(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{minutes: 540, want: "9:00 AM"},
		{minutes: 600, want: "10:00 AM"},
		{minutes: 720, want: "12:00 PM"},
		{minutes: 780, want: "1:00 PM"},
		{minutes: 960, want: "4:00 PM"},
		{minutes: 0, want: "12:00 AM"},
		{minutes: 870, want: "2:30 PM"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			slot, err := NewSlotTimeFromMinutes(tt.minutes)
			require.NoError(t, err)
			assert.Equal(t, tt.want, slot.String())
		})
	}
}

func TestSlotTime_RoundTrip(t *testing.T) {
	// Метка парсится обратно в то же время
	slot, err := ParseSlotTime("3:00 PM")
	require.NoError(t, err)

	parsed, err := ParseSlotTime(slot.String())
	require.NoError(t, err)
	assert.True(t, slot.Equal(parsed))
}

func TestNewSlotTime(t *testing.T) {
	now := time.Date(2025, 11, 20, 14, 45, 30, 0, time.UTC)
	slot := NewSlotTime(now)
	assert.Equal(t, 14*60+45, slot.Minutes())
}

func TestNewSlotTimeFromMinutes_OutOfRange(t *testing.T) {
	_, err := NewSlotTimeFromMinutes(-1)
	assert.ErrorIs(t, err, ErrMinutesOutOfRange)

	_, err = NewSlotTimeFromMinutes(24 * 60)
	assert.ErrorIs(t, err, ErrMinutesOutOfRange)
}

func TestSlotTime_AddMinutes(t *testing.T) {
	slot, err := ParseSlotTime("4:00 PM")
	require.NoError(t, err)

	end, err := slot.AddMinutes(60)
	require.NoError(t, err)
	assert.Equal(t, "5:00 PM", end.String())

	// Выход за пределы суток
	late, err := NewSlotTimeFromMinutes(23*60 + 30)
	require.NoError(t, err)
	_, err = late.AddMinutes(60)
	assert.ErrorIs(t, err, ErrMinutesOutOfRange)
}

func TestSlotTime_Comparisons(t *testing.T) {
	nine, _ := ParseSlotTime("9:00 AM")
	ten, _ := ParseSlotTime("10:00 AM")

	assert.True(t, nine.IsBefore(ten))
	assert.True(t, ten.IsAfter(nine))
	assert.False(t, nine.Equal(ten))
}

func TestSlotTime_Scan(t *testing.T) {
	var slot SlotTime
	require.NoError(t, slot.Scan("10:00 AM"))
	assert.Equal(t, 600, slot.Minutes())

	require.NoError(t, slot.Scan([]byte("4:00 PM")))
	assert.Equal(t, 960, slot.Minutes())

	assert.Error(t, slot.Scan(42))
}

func TestSlotTime_Value(t *testing.T) {
	slot, _ := ParseSlotTime("11:00 AM")
	v, err := slot.Value()
	require.NoError(t, err)
	assert.Equal(t, "11:00 AM", v)
}
