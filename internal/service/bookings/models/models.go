package models

import (
	"errors"
	"time"

	"github.com/m04kA/HMS-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidRole возвращается при некорректной роли актора
	ErrInvalidRole = errors.New("invalid actor role")
)

// Роли акторов, приходящие от auth-коллаборатора
const (
	RoleClient   = "client"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

// Actor идентичность и роль инициатора операции
// Разрешается один раз на запрос auth-middleware и передается явно
// в каждую операцию ядра
type Actor struct {
	ID   int64
	Role string
}

// IsAdmin возвращает true для платформенного (административного) актора
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsProvider возвращает true для актора-исполнителя
func (a Actor) IsProvider() bool {
	return a.Role == RoleProvider
}

// IsClient возвращает true для актора-клиента
func (a Actor) IsClient() bool {
	return a.Role == RoleClient
}

// ValidateRole проверяет, что роль известна системе
func (a Actor) ValidateRole() error {
	switch a.Role {
	case RoleClient, RoleProvider, RoleAdmin:
		return nil
	default:
		return ErrInvalidRole
	}
}

// Request модели

// RejectBookingRequest запрос на отклонение или отмену бронирования
type RejectBookingRequest struct {
	Actor  Actor
	Reason string
}

// GetClientBookingsRequest запрос на получение бронирований клиента
type GetClientBookingsRequest struct {
	Actor    Actor
	ClientID int64
	Status   *string
}

// GetProviderBookingsRequest запрос на получение бронирований исполнителя
type GetProviderBookingsRequest struct {
	Actor           Actor
	ProviderID      int64
	StartDate       *time.Time // Начало периода (опционально)
	EndDate         *time.Time // Конец периода (опционально)
	Status          *string    // Фильтр по статусу (опционально)
	IncludeRejected bool       // Включить отклонённые бронирования
	SortDescending  bool       // Сортировка по дате и слоту по убыванию
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetProviderBookingsRequest) ToDomainFilter() (domain.ProviderBookingsFilter, error) {
	filter := domain.ProviderBookingsFilter{
		ProviderID:      r.ProviderID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeRejected: r.IncludeRejected,
		SortDescending:  r.SortDescending,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         int64 `json:"id"`
	ProviderID int64 `json:"providerId"`
	ClientID   int64 `json:"clientId"`

	BookingDate string `json:"bookingDate"` // "2025-11-20"
	SlotTime    string `json:"slotTime"`    // "10:00 AM"
	Status      string `json:"status"`

	Notes       *string `json:"notes,omitempty"`
	CompletedAt *string `json:"completedAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:          b.ID,
		ProviderID:  b.ProviderID,
		ClientID:    b.ClientID,
		BookingDate: b.BookingDate.Format(domain.DateFormat),
		SlotTime:    b.SlotTime.String(),
		Status:      string(b.Status),
		Notes:       b.Notes,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}

	if b.CompletedAt != nil {
		completedStr := b.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &completedStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	for _, valid := range domain.AllStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
