package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HMS-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/HMS-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/HMS-BookingService/internal/integrations/mailer"
	"github.com/m04kA/HMS-BookingService/internal/service/bookings/models"
	"github.com/m04kA/HMS-BookingService/internal/service/notifications"
	"github.com/m04kA/HMS-BookingService/pkg/types"
)

// Моки

type mockRepo struct {
	bookings map[int64]*domain.Booking

	updateErr  error
	rejectErr  error
	listResult []*domain.Booking

	updateCalls   int
	rejectCalls   int
	completeCalls int
	deleteCalls   int

	lastReason *string
	lastFrom   []domain.BookingStatus
}

func newMockRepo(bookings ...*domain.Booking) *mockRepo {
	m := &mockRepo{bookings: make(map[int64]*domain.Booking)}
	for _, b := range bookings {
		m.bookings[b.ID] = b
	}
	return m
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if b, ok := m.bookings[id]; ok {
		return b, nil
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (m *mockRepo) GetByClientID(_ context.Context, _ int64, _ *domain.BookingStatus) ([]*domain.Booking, error) {
	return m.listResult, nil
}

func (m *mockRepo) GetByProviderWithFilter(_ context.Context, _ domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	return m.listResult, nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id int64, _, to domain.BookingStatus) error {
	m.updateCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	m.bookings[id].Status = to
	return nil
}

func (m *mockRepo) Reject(_ context.Context, id int64, from []domain.BookingStatus, reason *string) error {
	m.rejectCalls++
	m.lastFrom = from
	m.lastReason = reason
	if m.rejectErr != nil {
		return m.rejectErr
	}
	m.bookings[id].Status = domain.StatusRejected
	m.bookings[id].Notes = reason
	return nil
}

func (m *mockRepo) Complete(_ context.Context, id int64, completedAt time.Time) error {
	m.completeCalls++
	m.bookings[id].Status = domain.StatusCompleted
	m.bookings[id].CompletedAt = &completedAt
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	m.deleteCalls++
	if _, ok := m.bookings[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	delete(m.bookings, id)
	return nil
}

type mockDispatcher struct {
	jobs []notifications.Job
}

func (m *mockDispatcher) Dispatch(job notifications.Job) {
	m.jobs = append(m.jobs, job)
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time { return f.now }

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// Хелперы

func slot(t *testing.T, label string) types.SlotTime {
	t.Helper()
	s, err := types.ParseSlotTime(label)
	require.NoError(t, err)
	return s
}

func testBooking(t *testing.T, id int64, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	return &domain.Booking{
		ID:          id,
		ProviderID:  10,
		ClientID:    20,
		BookingDate: time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC),
		SlotTime:    slot(t, "10:00 AM"),
		Status:      status,
	}
}

func newTestService(repo *mockRepo, dispatcher *mockDispatcher, now time.Time) *Service {
	svc := NewService(repo, dispatcher, noopLogger{})
	svc.timeProvider = &fixedTime{now: now}
	return svc
}

var (
	providerActor = models.Actor{ID: 10, Role: models.RoleProvider}
	clientActor   = models.Actor{ID: 20, Role: models.RoleClient}
	adminActor    = models.Actor{ID: 1, Role: models.RoleAdmin}
	strangerActor = models.Actor{ID: 99, Role: models.RoleProvider}
)

// Confirm

func TestService_Confirm(t *testing.T) {
	repo := newMockRepo(testBooking(t, 1, domain.StatusPending))
	dispatcher := &mockDispatcher{}
	svc := newTestService(repo, dispatcher, time.Now())

	err := svc.Confirm(context.Background(), 1, providerActor)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmed, repo.bookings[1].Status)
	require.Len(t, dispatcher.jobs, 1)
	assert.Equal(t, mailer.KindClientBookingConfirmed, dispatcher.jobs[0].Kind)
	assert.Equal(t, int64(1), dispatcher.jobs[0].BookingID)
}

func TestService_Confirm_AccessDenied(t *testing.T) {
	repo := newMockRepo(testBooking(t, 1, domain.StatusPending))
	dispatcher := &mockDispatcher{}
	svc := newTestService(repo, dispatcher, time.Now())

	err := svc.Confirm(context.Background(), 1, strangerActor)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Zero(t, repo.updateCalls)
	assert.Empty(t, dispatcher.jobs)
}

func TestService_Confirm_TerminalState(t *testing.T) {
	for _, status := range domain.TerminalStatuses {
		t.Run(string(status), func(t *testing.T) {
			repo := newMockRepo(testBooking(t, 1, status))
			dispatcher := &mockDispatcher{}
			svc := newTestService(repo, dispatcher, time.Now())

			err := svc.Confirm(context.Background(), 1, providerActor)
			assert.ErrorIs(t, err, ErrTerminalState)
			assert.Zero(t, repo.updateCalls)
			assert.Empty(t, dispatcher.jobs)
			// Запись не изменилась
			assert.Equal(t, status, repo.bookings[1].Status)
		})
	}
}

func TestService_Confirm_AlreadyConfirmed(t *testing.T) {
	repo := newMockRepo(testBooking(t, 1, domain.StatusConfirmed))
	dispatcher := &mockDispatcher{}
	svc := newTestService(repo, dispatcher, time.Now())

	err := svc.Confirm(context.Background(), 1, providerActor)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Empty(t, dispatcher.jobs)
}

func TestService_Confirm_ConcurrentStatusChange(t *testing.T) {
	repo := newMockRepo(testBooking(t, 1, domain.StatusPending))
	repo.updateErr = bookingRepo.ErrStatusConflict
	dispatcher := &mockDispatcher{}
	svc := newTestService(repo, dispatcher, time.Now())

	err := svc.Confirm(context.Background(), 1, providerActor)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	// Уведомление не уходит, если переход не записан
	assert.Empty(t, dispatcher.jobs)
}

func TestService_Confirm_NotFound(t *testing.T) {
	svc := newTestService(newMockRepo(), &mockDispatcher{}, time.Now())

	err := svc.Confirm(context.Background(), 404, providerActor)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

// Reject / Cancel

func TestService_Reject_ByProvider(t *testing.T) {
	repo := newMockRepo(testBooking(t, 1, domain.StatusPending))
	dispatcher := &mockDispatcher{}
	svc := newTestService(repo, dispatcher, time.Now())

	err := svc.Reject(context.Background(), 1, &models.RejectBookingRequest{
		Actor:  providerActor,
		Reason: "Not available that day",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusRejected, repo.bookings[1].Status)
	require.NotNil(t, repo.lastReason)
	assert.Equal(t, "Not available that day", *repo.lastReason)
	assert.Equal(t, []domain.BookingStatus{domain.StatusPending}, repo.lastFrom)

	require.Len(t, dispatcher.jobs, 1)
	assert.Equal(t, mailer.KindClientBookingRejected, dispatcher.jobs[0].Kind)
	assert.Equal(t, "Not available that day", dispatcher.jobs[0].Reason)
}

func TestService_Reject_EmptyReason(t *testing.T) {
	repo := newMockRepo(testBooking(t, 1, domain.StatusPending))
	dispatcher := &mockDispatcher{}
	svc := newTestService(repo, dispatcher, time.Now())

	for _, reason := range []string{"", "   ", "\t\n"} {
		err := svc.Reject(context.Background(), 1, &models.RejectBookingRequest{
			Actor:  providerActor,
			Reason: reason,
		})
		assert.ErrorIs(t, err, ErrEmptyReason)
	}

	// Валидация причины идет до любой записи
	assert.Zero(t, repo.rejectCalls)
	assert.Equal(t, domain.StatusPending, repo.bookings[1].Status)
	assert.Empty(t, dispatcher.jobs)
}

func TestService_Reject_ConfirmedBooking(t *testing.T) {
	// Отклонить можно только ожидающее: для подтвержденного есть Cancel
	repo := newMockRepo(testBooking(t, 1, domain.StatusConfirmed))
	dispatcher := &mockDispatcher{}
	svc := newTestService(repo, dispatcher, time.Now())

	err := svc.Reject(context.Background(), 1, &models.RejectBookingRequest{
		Actor:  providerActor,
		Reason: "changed my mind",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_Reject_ByAdmin_Silent(t *testing.T) {
	repo := newMockRepo(testBooking(t, 1, domain.StatusConfirmed))
	dispatcher := &mockDispatcher{}
	svc := newTestService(repo, dispatcher, time.Now())

	// Причина для админа опциональна
	err := svc.Reject(context.Background(), 1, &models.RejectBookingRequest{Actor: adminActor})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusRejected, repo.bookings[1].Status)
	assert.Nil(t, repo.lastReason)
	// Платформенные действия уведомлений не шлют
	assert.Empty(t, dispatcher.jobs)
}

func TestService_Reject_ByAdmin_Terminal(t *testing.T) {
	repo := newMockRepo(testBooking(t, 1, domain.StatusCompleted))
	svc := newTestService(repo, &mockDispatcher{}, time.Now())

	err := svc.Reject(context.Background(), 1, &models.RejectBookingRequest{Actor: adminActor})
	assert.ErrorIs(t, err, ErrTerminalState)
	assert.Zero(t, repo.rejectCalls)
}

func TestService_Cancel_ByProvider(t *testing.T) {
	repo := newMockRepo(testBooking(t, 1, domain.StatusConfirmed))
	dispatcher := &mockDispatcher{}
	svc := newTestService(repo, dispatcher, time.Now())

	err := svc.Cancel(context.Background(), 1, &models.RejectBookingRequest{
		Actor:  providerActor,
		Reason: "Emergency",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusRejected, repo.bookings[1].Status)
	assert.Equal(t, []domain.BookingStatus{domain.StatusConfirmed}, repo.lastFrom)

	require.Len(t, dispatcher.jobs, 1)
	assert.Equal(t, mailer.KindClientBookingRejected, dispatcher.jobs[0].Kind)
}

func TestService_Cancel_PendingBooking(t *testing.T) {
	repo := newMockRepo(testBooking(t, 1, domain.StatusPending))
	svc := newTestService(repo, &mockDispatcher{}, time.Now())

	err := svc.Cancel(context.Background(), 1, &models.RejectBookingRequest{
		Actor:  providerActor,
		Reason: "Emergency",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

// Complete

func TestService_Complete_AfterServiceWindow(t *testing.T) {
	repo := newMockRepo(testBooking(t, 1, domain.StatusConfirmed))
	dispatcher := &mockDispatcher{}
	// Слот 10:00 AM 2025-11-20, окно закрылось в 11:00
	now := time.Date(2025, 11, 20, 11, 0, 0, 0, time.UTC)
	svc := newTestService(repo, dispatcher, now)

	err := svc.Complete(context.Background(), 1, providerActor)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, repo.bookings[1].Status)
	require.NotNil(t, repo.bookings[1].CompletedAt)
	assert.Equal(t, now, *repo.bookings[1].CompletedAt)

	require.Len(t, dispatcher.jobs, 1)
	assert.Equal(t, mailer.KindClientBookingCompleted, dispatcher.jobs[0].Kind)
}

func TestService_Complete_WindowStillOpen(t *testing.T) {
	repo := newMockRepo(testBooking(t, 1, domain.StatusConfirmed))
	dispatcher := &mockDispatcher{}
	now := time.Date(2025, 11, 20, 10, 30, 0, 0, time.UTC)
	svc := newTestService(repo, dispatcher, now)

	err := svc.Complete(context.Background(), 1, providerActor)
	assert.ErrorIs(t, err, ErrServiceWindowOpen)
	assert.Zero(t, repo.completeCalls)
	assert.Empty(t, dispatcher.jobs)
}

func TestService_Complete_PendingBooking(t *testing.T) {
	repo := newMockRepo(testBooking(t, 1, domain.StatusPending))
	now := time.Date(2025, 11, 21, 12, 0, 0, 0, time.UTC)
	svc := newTestService(repo, &mockDispatcher{}, now)

	err := svc.Complete(context.Background(), 1, providerActor)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

// Delete

func TestService_Delete_AdminOnly(t *testing.T) {
	repo := newMockRepo(testBooking(t, 1, domain.StatusCompleted))
	dispatcher := &mockDispatcher{}
	svc := newTestService(repo, dispatcher, time.Now())

	for _, actor := range []models.Actor{providerActor, clientActor} {
		err := svc.Delete(context.Background(), 1, actor)
		assert.ErrorIs(t, err, ErrAccessDenied)
	}
	assert.Zero(t, repo.deleteCalls)

	// Удаление обходит state machine: завершенное бронирование удаляется
	err := svc.Delete(context.Background(), 1, adminActor)
	require.NoError(t, err)
	assert.NotContains(t, repo.bookings, int64(1))
	// Без уведомлений
	assert.Empty(t, dispatcher.jobs)
}

// Чтение

func TestService_GetByID_Access(t *testing.T) {
	repo := newMockRepo(testBooking(t, 1, domain.StatusPending))
	svc := newTestService(repo, &mockDispatcher{}, time.Now())

	for _, actor := range []models.Actor{providerActor, clientActor, adminActor} {
		resp, err := svc.GetByID(context.Background(), 1, actor)
		require.NoError(t, err, actor.Role)
		assert.Equal(t, int64(1), resp.ID)
	}

	_, err := svc.GetByID(context.Background(), 1, strangerActor)
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Клиент с чужим ID тоже не проходит
	_, err = svc.GetByID(context.Background(), 1, models.Actor{ID: 21, Role: models.RoleClient})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_GetClientBookings_AccessAndStatus(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, &mockDispatcher{}, time.Now())

	// Чужая история недоступна
	_, err := svc.GetClientBookings(context.Background(), &models.GetClientBookingsRequest{
		Actor:    models.Actor{ID: 21, Role: models.RoleClient},
		ClientID: 20,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Некорректный статус отклоняется до обращения к репозиторию
	badStatus := "unknown"
	_, err = svc.GetClientBookings(context.Background(), &models.GetClientBookingsRequest{
		Actor:    clientActor,
		ClientID: 20,
		Status:   &badStatus,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Своя история доступна
	_, err = svc.GetClientBookings(context.Background(), &models.GetClientBookingsRequest{
		Actor:    clientActor,
		ClientID: 20,
	})
	assert.NoError(t, err)
}

func TestService_GetProviderBookings_Sorting(t *testing.T) {
	nov20 := time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)
	nov21 := time.Date(2025, 11, 21, 0, 0, 0, 0, time.UTC)

	// Репозиторий отдает в произвольном порядке: текстовые метки слотов
	// в SQL упорядочиваются неверно ("1:00 PM" < "9:00 AM" лексикографически)
	repo := newMockRepo()
	repo.listResult = []*domain.Booking{
		{ID: 1, ProviderID: 10, BookingDate: nov21, SlotTime: slot(t, "9:00 AM"), Status: domain.StatusPending},
		{ID: 2, ProviderID: 10, BookingDate: nov20, SlotTime: slot(t, "1:00 PM"), Status: domain.StatusPending},
		{ID: 3, ProviderID: 10, BookingDate: nov20, SlotTime: slot(t, "9:00 AM"), Status: domain.StatusPending},
	}
	svc := newTestService(repo, &mockDispatcher{}, time.Now())

	resp, err := svc.GetProviderBookings(context.Background(), &models.GetProviderBookingsRequest{
		Actor:      providerActor,
		ProviderID: 10,
	})
	require.NoError(t, err)

	ids := []int64{resp.Bookings[0].ID, resp.Bookings[1].ID, resp.Bookings[2].ID}
	assert.Equal(t, []int64{3, 2, 1}, ids)

	// Обратная сортировка
	resp, err = svc.GetProviderBookings(context.Background(), &models.GetProviderBookingsRequest{
		Actor:          providerActor,
		ProviderID:     10,
		SortDescending: true,
	})
	require.NoError(t, err)

	ids = []int64{resp.Bookings[0].ID, resp.Bookings[1].ID, resp.Bookings[2].ID}
	assert.Equal(t, []int64{1, 2, 3}, ids)
}
