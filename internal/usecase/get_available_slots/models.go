package get_available_slots

import "time"

// Request модель запроса на получение слотов
type Request struct {
	ProviderID int64     // ID исполнителя
	Date       time.Time // Дата (без времени)
}

// Slot один слот каталога с признаком доступности
// Занятые и прошедшие слоты возвращаются с Available=false,
// а не скрываются - клиент видит полную сетку дня
type Slot struct {
	Time      string `json:"time"`      // Метка слота, например "10:00 AM"
	Available bool   `json:"available"` // Можно ли забронировать
}

// Response модель ответа со слотами на дату
type Response struct {
	ProviderID int64     `json:"providerId"`
	Date       time.Time `json:"date"`
	Slots      []Slot    `json:"slots"`
}
