package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied возвращается, когда у актора нет прав на операцию
	ErrAccessDenied = errors.New("access denied")

	// ErrTerminalState возвращается при попытке перехода из терминального
	// статуса (rejected, completed) - запись при этом не изменяется
	ErrTerminalState = errors.New("booking is in terminal state")

	// ErrInvalidTransition возвращается, когда переход недопустим из
	// текущего нетерминального статуса
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrEmptyReason возвращается при отклонении/отмене без причины
	ErrEmptyReason = errors.New("rejection reason is required")

	// ErrServiceWindowOpen возвращается при попытке завершить бронирование
	// до окончания окна услуги
	ErrServiceWindowOpen = errors.New("service window has not elapsed yet")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
