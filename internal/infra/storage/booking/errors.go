package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrStatusConflict возвращается, когда guarded update не изменил ни одной
	// строки: статус бронирования уже не соответствует ожидаемому
	ErrStatusConflict = errors.New("booking.repository: booking status conflict")

	// ErrSlotTaken возвращается, когда вставка нарушила частичный уникальный
	// индекс занятости слота: конкурентная транзакция заняла слот первой
	ErrSlotTaken = errors.New("booking.repository: slot already taken")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
