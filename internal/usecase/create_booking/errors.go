package create_booking

import "errors"

var (
	// ErrProviderNotFound возвращается, когда исполнитель не найден
	ErrProviderNotFound = errors.New("create_booking: provider not found")

	// ErrClientNotFound возвращается, когда клиент не найден
	ErrClientNotFound = errors.New("create_booking: client not found")

	// ErrProviderUnavailable возвращается, когда исполнитель не одобрен,
	// неактивен или еще не принимает заявки на указанную дату
	ErrProviderUnavailable = errors.New("create_booking: provider is not available")

	// ErrInvalidDate возвращается при попытке забронировать прошедшую дату
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrInvalidSlot возвращается, когда время не входит в каталог слотов
	ErrInvalidSlot = errors.New("create_booking: time is not a catalog slot")

	// ErrTooLateToBook возвращается при нарушении минимального времени до слота
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrSlotNotAvailable возвращается, когда слот уже занят
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
