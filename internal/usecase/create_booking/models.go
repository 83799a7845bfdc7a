package create_booking

import (
	"time"

	"github.com/m04kA/HMS-BookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	ClientID   int64          // ID клиента
	ProviderID int64          // ID исполнителя
	Date       time.Time      // Дата бронирования (без времени)
	SlotTime   types.SlotTime // Слот каталога (например, "10:00 AM")
	Notes      *string        // Пожелания клиента (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID          int64          // ID созданного бронирования
	ClientID    int64          // ID клиента
	ProviderID  int64          // ID исполнителя
	BookingDate time.Time      // Дата бронирования
	SlotTime    types.SlotTime // Слот
	Status      string         // Статус (всегда pending при создании)
	Notes       *string        // Пожелания

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
