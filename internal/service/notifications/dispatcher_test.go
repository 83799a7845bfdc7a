package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HMS-BookingService/internal/domain"
	"github.com/m04kA/HMS-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/HMS-BookingService/internal/integrations/clientservice"
	"github.com/m04kA/HMS-BookingService/internal/integrations/mailer"
	"github.com/m04kA/HMS-BookingService/internal/integrations/providerservice"
	"github.com/m04kA/HMS-BookingService/pkg/types"
)

type stubBookingRepo struct {
	booking *domain.Booking
}

func (s *stubBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if s.booking == nil || s.booking.ID != id {
		return nil, booking.ErrBookingNotFound
	}
	return s.booking, nil
}

type stubProviderClient struct {
	provider *providerservice.Provider
}

func (s *stubProviderClient) GetProvider(_ context.Context, id int64) (*providerservice.Provider, error) {
	if s.provider == nil {
		return nil, providerservice.ErrProviderNotFound
	}
	return s.provider, nil
}

type stubClientClient struct {
	client *clientservice.Client
}

func (s *stubClientClient) GetClient(_ context.Context, id int64) (*clientservice.Client, error) {
	if s.client == nil {
		return nil, clientservice.ErrClientNotFound
	}
	return s.client, nil
}

type captureSender struct {
	requests []*mailer.SendRequest
	err      error
}

func (s *captureSender) Send(_ context.Context, req *mailer.SendRequest) error {
	s.requests = append(s.requests, req)
	return s.err
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func testFixtures(t *testing.T) (*stubBookingRepo, *stubProviderClient, *stubClientClient) {
	t.Helper()

	slot, err := types.ParseSlotTime("10:00 AM")
	require.NoError(t, err)

	repo := &stubBookingRepo{booking: &domain.Booking{
		ID:          1,
		ProviderID:  10,
		ClientID:    20,
		BookingDate: time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC),
		SlotTime:    slot,
		Status:      domain.StatusConfirmed,
	}}

	providers := &stubProviderClient{provider: &providerservice.Provider{
		ID:       10,
		Name:     "CleanPro Services",
		Email:    "provider@cleanpro.example",
		Category: "cleaning",
	}}

	clients := &stubClientClient{client: &clientservice.Client{
		ID:      20,
		Name:    "Jordan Fraser",
		Email:   "jordan@example.com",
		Address: "12 Main St",
	}}

	return repo, providers, clients
}

func newTestDispatcher(repo *stubBookingRepo, providers *stubProviderClient, clients *stubClientClient, sender *captureSender) *Dispatcher {
	return NewDispatcher(repo, providers, clients, sender, 4, nil, noopLogger{})
}

func TestDeliver_ProviderNewBooking(t *testing.T) {
	repo, providers, clients := testFixtures(t)
	sender := &captureSender{}
	d := newTestDispatcher(repo, providers, clients, sender)
	defer d.Close()

	result := d.Deliver(context.Background(), NewJob(mailer.KindProviderNewBooking, 1, ""))
	require.True(t, result.Success)

	require.Len(t, sender.requests, 1)
	req := sender.requests[0]
	assert.Equal(t, mailer.KindProviderNewBooking, req.Kind)
	// Новая заявка уходит исполнителю
	assert.Equal(t, "provider@cleanpro.example", req.To)
	assert.Equal(t, "Jordan Fraser", req.Payload.ClientName)
	assert.Equal(t, "CleanPro Services", req.Payload.ProviderName)
	assert.Equal(t, "cleaning", req.Payload.ServiceCategory)
	// Дата в письме человекочитаемая, время - меткой слота
	assert.Equal(t, "Thursday, November 20, 2025", req.Payload.Date)
	assert.Equal(t, "10:00 AM", req.Payload.Time)
	assert.Empty(t, req.Payload.Reason)
}

func TestDeliver_ClientKinds(t *testing.T) {
	tests := []struct {
		kind       mailer.MessageKind
		reason     string
		wantReason string
	}{
		{kind: mailer.KindClientBookingConfirmed},
		{kind: mailer.KindClientBookingCompleted},
		{kind: mailer.KindClientBookingRejected, reason: "Fully booked", wantReason: "Fully booked"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			repo, providers, clients := testFixtures(t)
			sender := &captureSender{}
			d := newTestDispatcher(repo, providers, clients, sender)
			defer d.Close()

			result := d.Deliver(context.Background(), NewJob(tt.kind, 1, tt.reason))
			require.True(t, result.Success)

			require.Len(t, sender.requests, 1)
			assert.Equal(t, "jordan@example.com", sender.requests[0].To)
			assert.Equal(t, tt.wantReason, sender.requests[0].Payload.Reason)
		})
	}
}

func TestDeliver_ContextNotFound(t *testing.T) {
	t.Run("missing booking", func(t *testing.T) {
		repo, providers, clients := testFixtures(t)
		repo.booking = nil
		sender := &captureSender{}
		d := newTestDispatcher(repo, providers, clients, sender)
		defer d.Close()

		result := d.Deliver(context.Background(), NewJob(mailer.KindClientBookingConfirmed, 1, ""))
		assert.False(t, result.Success)
		assert.ErrorIs(t, result.Err, ErrContextNotFound)
		// Письмо не отправляется вовсе
		assert.Empty(t, sender.requests)
	})

	t.Run("missing client", func(t *testing.T) {
		repo, providers, clients := testFixtures(t)
		clients.client = nil
		sender := &captureSender{}
		d := newTestDispatcher(repo, providers, clients, sender)
		defer d.Close()

		result := d.Deliver(context.Background(), NewJob(mailer.KindClientBookingConfirmed, 1, ""))
		assert.False(t, result.Success)
		assert.ErrorIs(t, result.Err, ErrContextNotFound)
		assert.Empty(t, sender.requests)
	})

	t.Run("missing provider", func(t *testing.T) {
		repo, providers, clients := testFixtures(t)
		providers.provider = nil
		sender := &captureSender{}
		d := newTestDispatcher(repo, providers, clients, sender)
		defer d.Close()

		result := d.Deliver(context.Background(), NewJob(mailer.KindProviderNewBooking, 1, ""))
		assert.False(t, result.Success)
		assert.ErrorIs(t, result.Err, ErrContextNotFound)
		assert.Empty(t, sender.requests)
	})
}

func TestDeliver_UnknownKind(t *testing.T) {
	repo, providers, clients := testFixtures(t)
	sender := &captureSender{}
	d := newTestDispatcher(repo, providers, clients, sender)
	defer d.Close()

	result := d.Deliver(context.Background(), NewJob(mailer.MessageKind("bogus"), 1, ""))
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Err, ErrUnknownKind)
}

func TestDispatcher_QueueAndClose(t *testing.T) {
	repo, providers, clients := testFixtures(t)
	sender := &captureSender{}
	d := newTestDispatcher(repo, providers, clients, sender)

	d.Dispatch(NewJob(mailer.KindClientBookingConfirmed, 1, ""))
	d.Dispatch(NewJob(mailer.KindClientBookingCompleted, 1, ""))

	// Close дожидается обработки всей очереди
	d.Close()
	assert.Len(t, sender.requests, 2)
}

func TestDispatcher_SendFailureIsContained(t *testing.T) {
	repo, providers, clients := testFixtures(t)
	sender := &captureSender{err: mailer.ErrSendFailed}
	d := newTestDispatcher(repo, providers, clients, sender)

	// Ошибка отправки не паникует и не всплывает наружу
	d.Dispatch(NewJob(mailer.KindClientBookingConfirmed, 1, ""))
	d.Close()

	assert.Len(t, sender.requests, 1)
}
