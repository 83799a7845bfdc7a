package notifications

import "errors"

var (
	// ErrContextNotFound возвращается, когда контекст бронирования
	// (само бронирование, клиент или исполнитель) не удалось разрешить -
	// письмо в этом случае не отправляется
	ErrContextNotFound = errors.New("notifications: booking context not found")

	// ErrUnknownKind возвращается при неизвестном типе уведомления
	ErrUnknownKind = errors.New("notifications: unknown message kind")

	// ErrQueueFull возвращается, когда очередь диспетчера переполнена
	// и задача отброшена
	ErrQueueFull = errors.New("notifications: dispatch queue full")
)
