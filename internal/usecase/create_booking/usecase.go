package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/HMS-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/HMS-BookingService/internal/infra/storage/booking"
	clientClient "github.com/m04kA/HMS-BookingService/internal/integrations/clientservice"
	"github.com/m04kA/HMS-BookingService/internal/integrations/mailer"
	providerClient "github.com/m04kA/HMS-BookingService/internal/integrations/providerservice"
	"github.com/m04kA/HMS-BookingService/internal/service/notifications"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo       BookingRepository
	providerClient    ProviderServiceClient
	clientClient      ClientServiceClient
	dispatcher        NotificationDispatcher
	txManager         TransactionManager
	timeProvider      TimeProvider
	rejectedFreesSlot bool
	logger            Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	providerClient ProviderServiceClient,
	clientClient ClientServiceClient,
	dispatcher NotificationDispatcher,
	txManager TransactionManager,
	rejectedFreesSlot bool,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:       bookingRepo,
		providerClient:    providerClient,
		clientClient:      clientClient,
		dispatcher:        dispatcher,
		txManager:         txManager,
		timeProvider:      &RealTimeProvider{},
		rejectedFreesSlot: rejectedFreesSlot,
		logger:            logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка занятости слота и вставка выполняются в одной сериализуемой
// транзакции с блокировкой строк даты, поэтому два конкурентных запроса
// на один слот не могут оба пройти
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: client=%d, provider=%d, date=%s, slot=%s",
		req.ClientID, req.ProviderID, req.Date.Format(domain.DateFormat), req.SlotTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Время входит в фиксированный каталог слотов
	if err := validateSlot(req.SlotTime); err != nil {
		uc.logger.Warn("CreateBooking: slot %s is not in catalog", req.SlotTime)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 3. Дата не в прошлом
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("CreateBooking: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, err
	}

	// 4. Минимальное время до начала слота (для сегодняшней даты)
	if err := validateLeadTime(req.Date, req.SlotTime, now); err != nil {
		uc.logger.Warn("CreateBooking: lead time validation failed: %v", err)
		return nil, err
	}

	// 5. Получаем исполнителя
	provider, err := uc.providerClient.GetProvider(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, providerClient.ErrProviderNotFound) {
			uc.logger.Warn("CreateBooking: provider id=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("CreateBooking: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}

	// 6. Исполнитель одобрен, активен и принимает заявки на эту дату
	if err := validateProvider(provider, req.Date); err != nil {
		uc.logger.Warn("CreateBooking: provider id=%d unavailable: %v", req.ProviderID, err)
		return nil, err
	}

	// 7. Проверяем существование клиента
	if _, err := uc.clientClient.GetClient(ctx, req.ClientID); err != nil {
		if errors.Is(err, clientClient.ErrClientNotFound) {
			uc.logger.Warn("CreateBooking: client id=%d not found", req.ClientID)
			return nil, ErrClientNotFound
		}
		uc.logger.Error("CreateBooking: failed to get client id=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: failed to get client: %v", ErrInternal, err)
	}

	var result *domain.Booking

	// 8. Проверка занятости и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8.1. Бронирования исполнителя на дату с блокировкой (FOR UPDATE)
		bookings, err := uc.bookingRepo.GetByProviderAndDate(txCtx, req.ProviderID, req.Date, uc.rejectedFreesSlot)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 8.2. Слот свободен
		if isSlotOccupied(req.SlotTime, bookings) {
			uc.logger.Warn("CreateBooking: slot %s on %s is occupied for provider=%d",
				req.SlotTime, req.Date.Format(domain.DateFormat), req.ProviderID)
			return ErrSlotNotAvailable
		}

		// 8.3. Создаем бронирование в статусе pending
		booking := &domain.Booking{
			ProviderID:  req.ProviderID,
			ClientID:    req.ClientID,
			BookingDate: req.Date,
			SlotTime:    req.SlotTime,
			Status:      domain.StatusPending,
			Notes:       req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			// Выборка на пустую дату ничего не блокирует, поэтому гонку за
			// первый слот дня ловит уникальный индекс, а не FOR UPDATE
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				uc.logger.Warn("CreateBooking: slot %s on %s taken concurrently for provider=%d",
					req.SlotTime, req.Date.Format(domain.DateFormat), req.ProviderID)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Проигравшую сериализуемую транзакцию Postgres прерывает на коммите
		if bookingRepo.IsSerializationFailure(err) {
			uc.logger.Warn("CreateBooking: serializable transaction aborted for provider=%d, date=%s, slot=%s",
				req.ProviderID, req.Date.Format(domain.DateFormat), req.SlotTime)
			return nil, ErrSlotNotAvailable
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	// Транзакция закоммичена - уведомляем исполнителя о новой заявке
	uc.dispatcher.Dispatch(notifications.NewJob(mailer.KindProviderNewBooking, result.ID, ""))

	return &Response{
		ID:          result.ID,
		ClientID:    result.ClientID,
		ProviderID:  result.ProviderID,
		BookingDate: result.BookingDate,
		SlotTime:    result.SlotTime,
		Status:      string(result.Status),
		Notes:       result.Notes,
		CreatedAt:   result.CreatedAt,
		UpdatedAt:   result.UpdatedAt,
	}, nil
}
