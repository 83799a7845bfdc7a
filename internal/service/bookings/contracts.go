package bookings

import (
	"context"
	"time"

	"github.com/m04kA/HMS-BookingService/internal/domain"
	"github.com/m04kA/HMS-BookingService/internal/service/notifications"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByClientID(ctx context.Context, clientID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByProviderWithFilter(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error
	Reject(ctx context.Context, id int64, fromStatuses []domain.BookingStatus, reason *string) error
	Complete(ctx context.Context, id int64, completedAt time.Time) error
	Delete(ctx context.Context, id int64) error
}

// NotificationDispatcher интерфейс диспетчера уведомлений
// Вызывается fire-and-forget строго после успешной записи перехода
type NotificationDispatcher interface {
	Dispatch(job notifications.Job)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
