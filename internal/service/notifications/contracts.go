package notifications

import (
	"context"

	"github.com/m04kA/HMS-BookingService/internal/domain"
	"github.com/m04kA/HMS-BookingService/internal/integrations/clientservice"
	"github.com/m04kA/HMS-BookingService/internal/integrations/mailer"
	"github.com/m04kA/HMS-BookingService/internal/integrations/providerservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// ProviderServiceClient интерфейс клиента для ProviderService
type ProviderServiceClient interface {
	GetProvider(ctx context.Context, providerID int64) (*providerservice.Provider, error)
}

// ClientServiceClient интерфейс клиента для ClientService
type ClientServiceClient interface {
	GetClient(ctx context.Context, clientID int64) (*clientservice.Client, error)
}

// MailSender интерфейс клиента сервиса рассылки
type MailSender interface {
	Send(ctx context.Context, req *mailer.SendRequest) error
}

// MetricsObserver интерфейс записи метрик диспетчера
type MetricsObserver interface {
	ObserveNotificationJob(kind, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
