package providerservice

import "errors"

var (
	// ErrProviderNotFound возвращается, когда исполнитель не найден
	ErrProviderNotFound = errors.New("provider not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("providerservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("providerservice client: invalid response")
)
