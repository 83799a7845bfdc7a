package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/HMS-BookingService/internal/domain"
	"github.com/m04kA/HMS-BookingService/internal/integrations/clientservice"
	"github.com/m04kA/HMS-BookingService/internal/integrations/providerservice"
	"github.com/m04kA/HMS-BookingService/internal/service/notifications"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByProviderAndDate(ctx context.Context, providerID int64, date time.Time, rejectedFreesSlot bool) ([]*domain.Booking, error)
}

// ProviderServiceClient интерфейс клиента для ProviderService
type ProviderServiceClient interface {
	GetProvider(ctx context.Context, providerID int64) (*providerservice.Provider, error)
}

// ClientServiceClient интерфейс клиента для ClientService
type ClientServiceClient interface {
	GetClient(ctx context.Context, clientID int64) (*clientservice.Client, error)
}

// NotificationDispatcher интерфейс диспетчера уведомлений
type NotificationDispatcher interface {
	Dispatch(job notifications.Job)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
