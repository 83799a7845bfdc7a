package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/HMS-BookingService/internal/domain"
	providerClient "github.com/m04kA/HMS-BookingService/internal/integrations/providerservice"
)

// UseCase use case для получения сетки слотов исполнителя на дату
type UseCase struct {
	bookingRepo       BookingRepository
	providerClient    ProviderServiceClient
	timeProvider      TimeProvider
	rejectedFreesSlot bool
	logger            Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	providerClient ProviderServiceClient,
	rejectedFreesSlot bool,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:       bookingRepo,
		providerClient:    providerClient,
		timeProvider:      &RealTimeProvider{},
		rejectedFreesSlot: rejectedFreesSlot,
		logger:            logger,
	}
}

// Execute выполняет use case получения слотов
// Политика rejected-слотов здесь та же, что при создании бронирования,
// поэтому сетка никогда не показывает доступным слот, который создание
// отвергнет как занятый
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: provider=%d, date=%s",
		req.ProviderID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем исполнителя
	provider, err := uc.providerClient.GetProvider(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, providerClient.ErrProviderNotFound) {
			uc.logger.Warn("GetAvailableSlots: provider id=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}

	// 3. Исполнитель не принимает заявки - сетка целиком недоступна
	if !providerAcceptsDate(provider, req.Date) {
		uc.logger.Info("GetAvailableSlots: provider id=%d does not accept bookings on %s",
			req.ProviderID, req.Date.Format(domain.DateFormat))
		return &Response{
			ProviderID: req.ProviderID,
			Date:       req.Date,
			Slots:      unavailableSlots(),
		}, nil
	}

	// 4. Занятые слоты на дату
	bookings, err := uc.bookingRepo.GetByProviderAndDate(ctx, req.ProviderID, req.Date, uc.rejectedFreesSlot)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 5. Строим сетку
	slots := buildSlots(req.Date, uc.timeProvider.Now(), bookings)

	uc.logger.Info("GetAvailableSlots: built %d slots for provider=%d on %s",
		len(slots), req.ProviderID, req.Date.Format(domain.DateFormat))

	return &Response{
		ProviderID: req.ProviderID,
		Date:       req.Date,
		Slots:      slots,
	}, nil
}

// providerAcceptsDate проверяет, что исполнитель одобрен, активен и
// указанная дата не раньше его available_from
func providerAcceptsDate(provider *providerClient.Provider, date time.Time) bool {
	if !provider.Approved || !provider.Active {
		return false
	}

	availableFrom, hasLimit, err := provider.AvailableFromDate()
	if err != nil {
		// Некорректная дата у исполнителя трактуется как недоступность
		return false
	}
	if hasLimit && domain.IsDateInPast(date, availableFrom) {
		return false
	}

	return true
}
