package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HMS-BookingService/internal/domain"
	"github.com/m04kA/HMS-BookingService/internal/integrations/providerservice"
	"github.com/m04kA/HMS-BookingService/pkg/types"
)

type mockRepo struct {
	bookings          []*domain.Booking
	rejectedFreesSlot *bool // фиксирует, с каким флагом звали репозиторий
}

func (m *mockRepo) GetByProviderAndDate(_ context.Context, providerID int64, date time.Time, rejectedFreesSlot bool) ([]*domain.Booking, error) {
	m.rejectedFreesSlot = &rejectedFreesSlot

	result := make([]*domain.Booking, 0)
	for _, b := range m.bookings {
		if b.ProviderID != providerID || !domain.IsSameDay(b.BookingDate, date) {
			continue
		}
		if !b.OccupiesSlot(rejectedFreesSlot) {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

type stubProviderClient struct {
	provider *providerservice.Provider
}

func (s *stubProviderClient) GetProvider(_ context.Context, _ int64) (*providerservice.Provider, error) {
	if s.provider == nil {
		return nil, providerservice.ErrProviderNotFound
	}
	return s.provider, nil
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time { return f.now }

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func slot(t *testing.T, label string) types.SlotTime {
	t.Helper()
	s, err := types.ParseSlotTime(label)
	require.NoError(t, err)
	return s
}

func activeProvider() *providerservice.Provider {
	return &providerservice.Provider{
		ID:       10,
		Name:     "CleanPro Services",
		Approved: true,
		Active:   true,
	}
}

func newTestUseCase(repo *mockRepo, providers *stubProviderClient, now time.Time, rejectedFreesSlot bool) *UseCase {
	uc := NewUseCase(repo, providers, rejectedFreesSlot, noopLogger{})
	uc.timeProvider = &fixedTime{now: now}
	return uc
}

func availability(resp *Response) map[string]bool {
	m := make(map[string]bool, len(resp.Slots))
	for _, s := range resp.Slots {
		m[s.Time] = s.Available
	}
	return m
}

var (
	testNow  = time.Date(2025, 11, 15, 8, 0, 0, 0, time.UTC)
	testDate = time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)
)

func TestExecute_FullGrid(t *testing.T) {
	repo := &mockRepo{}
	uc := newTestUseCase(repo, &stubProviderClient{provider: activeProvider()}, testNow, false)

	resp, err := uc.Execute(context.Background(), &Request{ProviderID: 10, Date: testDate})
	require.NoError(t, err)

	// Всегда полная сетка каталога
	require.Len(t, resp.Slots, 8)
	assert.Equal(t, "9:00 AM", resp.Slots[0].Time)
	assert.Equal(t, "4:00 PM", resp.Slots[7].Time)

	for _, s := range resp.Slots {
		assert.True(t, s.Available, s.Time)
	}
}

func TestExecute_OccupiedSlotsDisabledNotHidden(t *testing.T) {
	repo := &mockRepo{bookings: []*domain.Booking{
		{ID: 1, ProviderID: 10, BookingDate: testDate, SlotTime: slot(t, "10:00 AM"), Status: domain.StatusPending},
		{ID: 2, ProviderID: 10, BookingDate: testDate, SlotTime: slot(t, "2:00 PM"), Status: domain.StatusConfirmed},
	}}
	uc := newTestUseCase(repo, &stubProviderClient{provider: activeProvider()}, testNow, false)

	resp, err := uc.Execute(context.Background(), &Request{ProviderID: 10, Date: testDate})
	require.NoError(t, err)

	// Занятые слоты присутствуют в сетке, но недоступны
	require.Len(t, resp.Slots, 8)
	avail := availability(resp)
	assert.False(t, avail["10:00 AM"])
	assert.False(t, avail["2:00 PM"])
	assert.True(t, avail["9:00 AM"])
	assert.True(t, avail["4:00 PM"])
}

func TestExecute_RejectedSlotPolicy(t *testing.T) {
	bookings := []*domain.Booking{
		{ID: 1, ProviderID: 10, BookingDate: testDate, SlotTime: slot(t, "10:00 AM"), Status: domain.StatusRejected},
	}

	t.Run("default: rejected slot stays occupied", func(t *testing.T) {
		repo := &mockRepo{bookings: bookings}
		uc := newTestUseCase(repo, &stubProviderClient{provider: activeProvider()}, testNow, false)

		resp, err := uc.Execute(context.Background(), &Request{ProviderID: 10, Date: testDate})
		require.NoError(t, err)
		assert.False(t, availability(resp)["10:00 AM"])
	})

	t.Run("rejected_frees_slot: rejected slot reopens", func(t *testing.T) {
		repo := &mockRepo{bookings: bookings}
		uc := newTestUseCase(repo, &stubProviderClient{provider: activeProvider()}, testNow, true)

		resp, err := uc.Execute(context.Background(), &Request{ProviderID: 10, Date: testDate})
		require.NoError(t, err)
		assert.True(t, availability(resp)["10:00 AM"])
		// Репозиторий зовется с той же политикой, что и создание
		require.NotNil(t, repo.rejectedFreesSlot)
		assert.True(t, *repo.rejectedFreesSlot)
	})
}

func TestExecute_TodayLeadTime(t *testing.T) {
	today := time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 11, 15, 13, 30, 0, 0, time.UTC)

	repo := &mockRepo{}
	uc := newTestUseCase(repo, &stubProviderClient{provider: activeProvider()}, now, false)

	resp, err := uc.Execute(context.Background(), &Request{ProviderID: 10, Date: today})
	require.NoError(t, err)

	// В 13:30 порог 14:30: прошедшие и ближние слоты недоступны
	avail := availability(resp)
	assert.False(t, avail["9:00 AM"])
	assert.False(t, avail["1:00 PM"])
	assert.False(t, avail["2:00 PM"])
	assert.True(t, avail["3:00 PM"])
	assert.True(t, avail["4:00 PM"])
}

func TestExecute_PastDate(t *testing.T) {
	repo := &mockRepo{}
	uc := newTestUseCase(repo, &stubProviderClient{provider: activeProvider()}, testNow, false)

	past := time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)
	resp, err := uc.Execute(context.Background(), &Request{ProviderID: 10, Date: past})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 8)
	for _, s := range resp.Slots {
		assert.False(t, s.Available, s.Time)
	}
}

func TestExecute_ProviderNotAccepting(t *testing.T) {
	tests := []struct {
		name    string
		mutator func(p *providerservice.Provider)
	}{
		{name: "not approved", mutator: func(p *providerservice.Provider) { p.Approved = false }},
		{name: "inactive", mutator: func(p *providerservice.Provider) { p.Active = false }},
		{name: "before available_from", mutator: func(p *providerservice.Provider) { p.AvailableFrom = "2025-12-01" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := activeProvider()
			tt.mutator(provider)

			repo := &mockRepo{}
			uc := newTestUseCase(repo, &stubProviderClient{provider: provider}, testNow, false)

			resp, err := uc.Execute(context.Background(), &Request{ProviderID: 10, Date: testDate})
			require.NoError(t, err)

			require.Len(t, resp.Slots, 8)
			for _, s := range resp.Slots {
				assert.False(t, s.Available, s.Time)
			}
		})
	}
}

func TestExecute_ProviderNotFound(t *testing.T) {
	uc := newTestUseCase(&mockRepo{}, &stubProviderClient{}, testNow, false)

	_, err := uc.Execute(context.Background(), &Request{ProviderID: 10, Date: testDate})
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(&mockRepo{}, &stubProviderClient{provider: activeProvider()}, testNow, false)

	_, err := uc.Execute(context.Background(), &Request{ProviderID: 0, Date: testDate})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ProviderID: 10})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
