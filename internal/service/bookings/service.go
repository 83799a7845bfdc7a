package bookings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/m04kA/HMS-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/HMS-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/HMS-BookingService/internal/integrations/mailer"
	"github.com/m04kA/HMS-BookingService/internal/service/bookings/models"
	"github.com/m04kA/HMS-BookingService/internal/service/notifications"
	"github.com/m04kA/HMS-BookingService/pkg/ptr"
)

// Service сервис жизненного цикла бронирований
// Все переходы статуса проходят только через этот сервис: presentation-слой
// никогда не меняет статус напрямую
type Service struct {
	bookingRepo  BookingRepository
	dispatcher   NotificationDispatcher
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	dispatcher NotificationDispatcher,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		dispatcher:   dispatcher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Клиент и исполнитель видят только свои бронирования, админ - любые
func (s *Service) GetByID(ctx context.Context, id int64, actor models.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for actor=%d role=%s", id, actor.ID, actor.Role)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkReadAccess(booking, actor); err != nil {
		s.logger.Warn("GetByID: access denied for actor=%d role=%s to booking id=%d", actor.ID, actor.Role, id)
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetClientBookings получает историю бронирований клиента
// Опционально фильтрует по статусу; сортировка по дате и слоту, новые сверху
func (s *Service) GetClientBookings(ctx context.Context, req *models.GetClientBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetClientBookings: client=%d actor=%d role=%s status=%v",
		req.ClientID, req.Actor.ID, req.Actor.Role, req.Status)

	if !req.Actor.IsAdmin() && !(req.Actor.IsClient() && req.Actor.ID == req.ClientID) {
		s.logger.Warn("GetClientBookings: access denied for actor=%d role=%s to client=%d",
			req.Actor.ID, req.Actor.Role, req.ClientID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientBookings: invalid status=%s for client=%d", *req.Status, req.ClientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByClientID(ctx, req.ClientID, domainStatus)
	if err != nil {
		s.logger.Error("GetClientBookings: repository error for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetClientBookings - repository error: %v", ErrInternal, err)
	}

	sortByDateAndSlot(bookings, true)

	s.logger.Info("GetClientBookings: fetched %d bookings for client=%d", len(bookings), req.ClientID)
	return models.FromDomainBookingList(bookings), nil
}

// GetProviderBookings получает бронирования исполнителя с фильтрацией
// по периоду и статусу. Сортировка по дате, при равных датах - по минутам
// слота; направление задается фильтром
func (s *Service) GetProviderBookings(ctx context.Context, req *models.GetProviderBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetProviderBookings: provider=%d actor=%d role=%s",
		req.ProviderID, req.Actor.ID, req.Actor.Role)

	if !req.Actor.IsAdmin() && !(req.Actor.IsProvider() && req.Actor.ID == req.ProviderID) {
		s.logger.Warn("GetProviderBookings: access denied for actor=%d role=%s to provider=%d",
			req.Actor.ID, req.Actor.Role, req.ProviderID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetProviderBookings: invalid filter for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByProviderWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetProviderBookings: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetProviderBookings - repository error: %v", ErrInternal, err)
	}

	sortByDateAndSlot(bookings, filter.SortDescending)

	s.logger.Info("GetProviderBookings: fetched %d bookings for provider=%d", len(bookings), req.ProviderID)
	return models.FromDomainBookingList(bookings), nil
}

// Confirm подтверждает ожидающее бронирование
// Доступно только исполнителю, которому принадлежит бронирование
func (s *Service) Confirm(ctx context.Context, bookingID int64, actor models.Actor) error {
	s.logger.Info("Confirm: booking id=%d by actor=%d role=%s", bookingID, actor.ID, actor.Role)

	booking, err := s.getBooking(ctx, "Confirm", bookingID)
	if err != nil {
		return err
	}

	if err := s.checkProviderAccess(booking, actor); err != nil {
		s.logger.Warn("Confirm: access denied for actor=%d to booking id=%d", actor.ID, bookingID)
		return err
	}

	if booking.IsTerminal() {
		s.logger.Warn("Confirm: booking id=%d is terminal, status=%s", bookingID, booking.Status)
		return ErrTerminalState
	}
	if !booking.CanBeConfirmed() {
		s.logger.Warn("Confirm: booking id=%d not pending, status=%s", bookingID, booking.Status)
		return ErrInvalidTransition
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.StatusPending, domain.StatusConfirmed); err != nil {
		return s.mapRepoError("Confirm", bookingID, err)
	}

	s.logger.Info("Confirm: booking id=%d confirmed", bookingID)

	// Запись перехода завершена и проверена - уведомление best-effort
	s.dispatcher.Dispatch(notifications.NewJob(mailer.KindClientBookingConfirmed, bookingID, ""))

	return nil
}

// Reject отклоняет ожидающее бронирование с обязательной причиной
// Исполнитель отклоняет только свои pending-бронирования с уведомлением
// клиента. Админ переводит в rejected любое нетерминальное бронирование,
// причина опциональна, уведомление не отправляется - платформенные действия
// намеренно безмолвны
func (s *Service) Reject(ctx context.Context, bookingID int64, req *models.RejectBookingRequest) error {
	s.logger.Info("Reject: booking id=%d by actor=%d role=%s", bookingID, req.Actor.ID, req.Actor.Role)

	if req.Actor.IsAdmin() {
		return s.adminReject(ctx, bookingID, req.Reason)
	}

	// Валидация причины до любого чтения или записи
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		s.logger.Warn("Reject: empty reason for booking id=%d", bookingID)
		return ErrEmptyReason
	}
	if len(reason) > domain.MaxNotesLength {
		s.logger.Warn("Reject: reason too long for booking id=%d", bookingID)
		return fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	booking, err := s.getBooking(ctx, "Reject", bookingID)
	if err != nil {
		return err
	}

	if err := s.checkProviderAccess(booking, req.Actor); err != nil {
		s.logger.Warn("Reject: access denied for actor=%d to booking id=%d", req.Actor.ID, bookingID)
		return err
	}

	if booking.IsTerminal() {
		s.logger.Warn("Reject: booking id=%d is terminal, status=%s", bookingID, booking.Status)
		return ErrTerminalState
	}
	if !booking.CanBeRejected() {
		s.logger.Warn("Reject: booking id=%d not pending, status=%s", bookingID, booking.Status)
		return ErrInvalidTransition
	}

	if err := s.bookingRepo.Reject(ctx, bookingID, []domain.BookingStatus{domain.StatusPending}, ptr.Ptr(reason)); err != nil {
		return s.mapRepoError("Reject", bookingID, err)
	}

	s.logger.Info("Reject: booking id=%d rejected", bookingID)

	s.dispatcher.Dispatch(notifications.NewJob(mailer.KindClientBookingRejected, bookingID, reason))

	return nil
}

// Cancel отменяет подтвержденное бронирование с обязательной причиной
// Отмена и отклонение разделяют статус rejected и письмо клиенту -
// различается только исходный статус
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.RejectBookingRequest) error {
	s.logger.Info("Cancel: booking id=%d by actor=%d role=%s", bookingID, req.Actor.ID, req.Actor.Role)

	if req.Actor.IsAdmin() {
		return s.adminReject(ctx, bookingID, req.Reason)
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		s.logger.Warn("Cancel: empty reason for booking id=%d", bookingID)
		return ErrEmptyReason
	}
	if len(reason) > domain.MaxNotesLength {
		s.logger.Warn("Cancel: reason too long for booking id=%d", bookingID)
		return fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	booking, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return err
	}

	if err := s.checkProviderAccess(booking, req.Actor); err != nil {
		s.logger.Warn("Cancel: access denied for actor=%d to booking id=%d", req.Actor.ID, bookingID)
		return err
	}

	if booking.IsTerminal() {
		s.logger.Warn("Cancel: booking id=%d is terminal, status=%s", bookingID, booking.Status)
		return ErrTerminalState
	}
	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d not confirmed, status=%s", bookingID, booking.Status)
		return ErrInvalidTransition
	}

	if err := s.bookingRepo.Reject(ctx, bookingID, []domain.BookingStatus{domain.StatusConfirmed}, ptr.Ptr(reason)); err != nil {
		return s.mapRepoError("Cancel", bookingID, err)
	}

	s.logger.Info("Cancel: booking id=%d cancelled", bookingID)

	s.dispatcher.Dispatch(notifications.NewJob(mailer.KindClientBookingRejected, bookingID, reason))

	return nil
}

// Complete завершает подтвержденное бронирование
// Разрешено только после окончания окна услуги (начало слота + час)
func (s *Service) Complete(ctx context.Context, bookingID int64, actor models.Actor) error {
	s.logger.Info("Complete: booking id=%d by actor=%d role=%s", bookingID, actor.ID, actor.Role)

	booking, err := s.getBooking(ctx, "Complete", bookingID)
	if err != nil {
		return err
	}

	if err := s.checkProviderAccess(booking, actor); err != nil {
		s.logger.Warn("Complete: access denied for actor=%d to booking id=%d", actor.ID, bookingID)
		return err
	}

	if booking.IsTerminal() {
		s.logger.Warn("Complete: booking id=%d is terminal, status=%s", bookingID, booking.Status)
		return ErrTerminalState
	}
	if !booking.CanBeCompleted() {
		s.logger.Warn("Complete: booking id=%d not confirmed, status=%s", bookingID, booking.Status)
		return ErrInvalidTransition
	}

	now := s.timeProvider.Now()
	if !booking.ServiceWindowElapsed(now) {
		s.logger.Warn("Complete: service window still open for booking id=%d (date=%s slot=%s)",
			bookingID, booking.BookingDate.Format(domain.DateFormat), booking.SlotTime)
		return ErrServiceWindowOpen
	}

	if err := s.bookingRepo.Complete(ctx, bookingID, now); err != nil {
		return s.mapRepoError("Complete", bookingID, err)
	}

	s.logger.Info("Complete: booking id=%d completed", bookingID)

	s.dispatcher.Dispatch(notifications.NewJob(mailer.KindClientBookingCompleted, bookingID, ""))

	return nil
}

// Delete физически удаляет бронирование в обход state machine
// Доступно только админу; уведомления не отправляются
func (s *Service) Delete(ctx context.Context, bookingID int64, actor models.Actor) error {
	s.logger.Info("Delete: booking id=%d by actor=%d role=%s", bookingID, actor.ID, actor.Role)

	if !actor.IsAdmin() {
		s.logger.Warn("Delete: access denied for actor=%d role=%s", actor.ID, actor.Role)
		return ErrAccessDenied
	}

	if err := s.bookingRepo.Delete(ctx, bookingID); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Delete: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Delete: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: booking id=%d deleted", bookingID)
	return nil
}

// Вспомогательные методы

// adminReject переводит любое нетерминальное бронирование в rejected
// без уведомления клиента
func (s *Service) adminReject(ctx context.Context, bookingID int64, reason string) error {
	booking, err := s.getBooking(ctx, "adminReject", bookingID)
	if err != nil {
		return err
	}

	if booking.IsTerminal() {
		s.logger.Warn("adminReject: booking id=%d is terminal, status=%s", bookingID, booking.Status)
		return ErrTerminalState
	}

	var notes *string
	if trimmed := strings.TrimSpace(reason); trimmed != "" {
		notes = ptr.Ptr(trimmed)
	}

	from := []domain.BookingStatus{domain.StatusPending, domain.StatusConfirmed}
	if err := s.bookingRepo.Reject(ctx, bookingID, from, notes); err != nil {
		return s.mapRepoError("adminReject", bookingID, err)
	}

	s.logger.Info("adminReject: booking id=%d rejected by admin, no notification dispatched", bookingID)
	return nil
}

// getBooking читает бронирование и маппит ошибки репозитория
func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// mapRepoError маппит ошибки guarded-обновлений репозитория
func (s *Service) mapRepoError(op string, id int64, err error) error {
	switch {
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		s.logger.Warn("%s: booking id=%d not found during update", op, id)
		return ErrBookingNotFound
	case errors.Is(err, bookingRepo.ErrStatusConflict):
		// Статус изменился между чтением и guarded-обновлением
		s.logger.Warn("%s: booking id=%d status changed concurrently", op, id)
		return ErrInvalidTransition
	default:
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}

// checkReadAccess проверяет право актора видеть бронирование
func (s *Service) checkReadAccess(booking *domain.Booking, actor models.Actor) error {
	switch {
	case actor.IsAdmin():
		return nil
	case actor.IsClient() && booking.ClientID == actor.ID:
		return nil
	case actor.IsProvider() && booking.ProviderID == actor.ID:
		return nil
	default:
		return ErrAccessDenied
	}
}

// checkProviderAccess проверяет, что актор - исполнитель этого бронирования
func (s *Service) checkProviderAccess(booking *domain.Booking, actor models.Actor) error {
	if actor.IsProvider() && booking.ProviderID == actor.ID {
		return nil
	}
	return ErrAccessDenied
}

// sortByDateAndSlot сортирует бронирования по дате, при равных датах -
// по минутам слота. Текстовая метка слота в SQL упорядочивается неверно,
// поэтому tie-break выполняется здесь через распарсенные минуты
func sortByDateAndSlot(bookings []*domain.Booking, descending bool) {
	sort.SliceStable(bookings, func(i, j int) bool {
		cmp := compareBookings(bookings[i], bookings[j])
		if descending {
			return cmp > 0
		}
		return cmp < 0
	})
}

func compareBookings(a, b *domain.Booking) int {
	ka := a.BookingDate.Format(domain.DateFormat)
	kb := b.BookingDate.Format(domain.DateFormat)
	switch {
	case ka < kb:
		return -1
	case ka > kb:
		return 1
	}
	return a.SlotTime.Minutes() - b.SlotTime.Minutes()
}
