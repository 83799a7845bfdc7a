package domain

// Service parameters
const (
	// ServiceDurationMinutes длительность одного слота услуги
	ServiceDurationMinutes = 60

	// MinBookingNoticeMinutes минимальный запас времени до начала слота
	// при бронировании на сегодня
	MinBookingNoticeMinutes = 60
)

// Business validation constants
const (
	MaxNotesLength = 500
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD

	// HumanDateFormat полная человекочитаемая дата для писем,
	// например "Saturday, November 15, 2025"
	HumanDateFormat = "Monday, January 2, 2006"
)

// TerminalStatuses статусы, из которых запрещены дальнейшие переходы
var TerminalStatuses = []BookingStatus{
	StatusRejected,
	StatusCompleted,
}

// AllStatuses список всех допустимых статусов бронирования
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusRejected,
	StatusCompleted,
}
