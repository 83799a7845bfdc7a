package providerservice

import (
	"time"

	"github.com/m04kA/HMS-BookingService/internal/domain"
)

// Provider модель исполнителя из ProviderService
type Provider struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Category      string  `json:"category"` // Категория услуг (cleaning, plumbing, ...)
	StartingPrice float64 `json:"starting_price"`
	Approved      bool    `json:"approved"`
	Active        bool    `json:"active"`
	AvailableFrom string  `json:"available_from"` // "2025-11-01", с какой даты принимает заявки
}

// AvailableFromDate парсит дату начала доступности
// Пустое значение означает отсутствие ограничения
func (p *Provider) AvailableFromDate() (time.Time, bool, error) {
	if p.AvailableFrom == "" {
		return time.Time{}, false, nil
	}

	date, err := time.Parse(domain.DateFormat, p.AvailableFrom)
	if err != nil {
		return time.Time{}, false, err
	}

	return date, true, nil
}

// ErrorResponse модель ошибки от ProviderService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
