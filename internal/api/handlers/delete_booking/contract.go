package delete_booking

import (
	"context"

	"github.com/m04kA/HMS-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	Delete(ctx context.Context, bookingID int64, actor models.Actor) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
