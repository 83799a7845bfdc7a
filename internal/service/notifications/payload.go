package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/HMS-BookingService/internal/domain"
	"github.com/m04kA/HMS-BookingService/internal/integrations/clientservice"
	"github.com/m04kA/HMS-BookingService/internal/integrations/mailer"
	"github.com/m04kA/HMS-BookingService/internal/integrations/providerservice"
)

// buildRequest разрешает полный контекст бронирования (запись, клиент,
// исполнитель) и собирает письмо. Если хоть одна из трех связей не
// разрешается, отправка не выполняется вовсе
func (d *Dispatcher) buildRequest(ctx context.Context, job Job) (*mailer.SendRequest, error) {
	booking, err := d.bookingRepo.GetByID(ctx, job.BookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: booking id=%d: %v", ErrContextNotFound, job.BookingID, err)
	}

	client, err := d.clientClient.GetClient(ctx, booking.ClientID)
	if err != nil {
		if errors.Is(err, clientservice.ErrClientNotFound) {
			return nil, fmt.Errorf("%w: client id=%d", ErrContextNotFound, booking.ClientID)
		}
		return nil, fmt.Errorf("%w: client id=%d: %v", ErrContextNotFound, booking.ClientID, err)
	}

	provider, err := d.providerClient.GetProvider(ctx, booking.ProviderID)
	if err != nil {
		if errors.Is(err, providerservice.ErrProviderNotFound) {
			return nil, fmt.Errorf("%w: provider id=%d", ErrContextNotFound, booking.ProviderID)
		}
		return nil, fmt.Errorf("%w: provider id=%d: %v", ErrContextNotFound, booking.ProviderID, err)
	}

	payload := mailer.Payload{
		ClientName:      client.Name,
		ProviderName:    provider.Name,
		ServiceCategory: provider.Category,
		Date:            booking.BookingDate.Format(domain.HumanDateFormat),
		Time:            booking.SlotTime.String(),
		Address:         client.Address,
	}

	var to string
	switch job.Kind {
	case mailer.KindProviderNewBooking:
		to = provider.Email
	case mailer.KindClientBookingConfirmed, mailer.KindClientBookingCompleted:
		to = client.Email
	case mailer.KindClientBookingRejected:
		to = client.Email
		payload.Reason = job.Reason
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, job.Kind)
	}

	return &mailer.SendRequest{
		Kind:    job.Kind,
		To:      to,
		Payload: payload,
	}, nil
}
