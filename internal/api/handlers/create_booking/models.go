package create_booking

import (
	"time"

	"github.com/m04kA/HMS-BookingService/internal/domain"
	createBooking "github.com/m04kA/HMS-BookingService/internal/usecase/create_booking"
	"github.com/m04kA/HMS-BookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ProviderID  int64   `json:"providerId"`
	BookingDate string  `json:"bookingDate"` // "2025-11-20"
	SlotTime    string  `json:"slotTime"`    // "10:00 AM"
	Notes       *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID          int64   `json:"id"`
	ClientID    int64   `json:"clientId"`
	ProviderID  int64   `json:"providerId"`
	BookingDate string  `json:"bookingDate"`
	SlotTime    string  `json:"slotTime"`
	Status      string  `json:"status"`
	Notes       *string `json:"notes,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(clientID int64) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	slotTime, err := types.ParseSlotTime(r.SlotTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		ClientID:   clientID,
		ProviderID: r.ProviderID,
		Date:       bookingDate,
		SlotTime:   slotTime,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:          resp.ID,
		ClientID:    resp.ClientID,
		ProviderID:  resp.ProviderID,
		BookingDate: resp.BookingDate.Format(domain.DateFormat),
		SlotTime:    resp.SlotTime.String(),
		Status:      resp.Status,
		Notes:       resp.Notes,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}
