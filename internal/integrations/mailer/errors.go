package mailer

import "errors"

var (
	// ErrSendFailed возвращается, когда сервис рассылки отклонил письмо
	ErrSendFailed = errors.New("mailer client: send failed")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("mailer client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("mailer client: invalid response")
)
