package complete_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/HMS-BookingService/internal/api/handlers"
	"github.com/m04kA/HMS-BookingService/internal/api/middleware"
	"github.com/m04kA/HMS-BookingService/internal/service/bookings"
)

const (
	msgInvalidBookingID  = "некорректный ID бронирования"
	msgNotFound          = "бронирование не найдено"
	msgMissingActor      = "отсутствует идентификация пользователя"
	msgForbidden         = "доступ запрещен"
	msgTerminalState     = "бронирование уже в финальном статусе"
	msgInvalidTransition = "завершить можно только подтвержденное бронирование"
	msgServiceWindowOpen = "окно услуги еще не закончилось"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/complete
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/complete - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/complete - Missing actor in context")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	if err := h.service.Complete(r.Context(), bookingID, actor); err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/complete - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/complete - Access denied: booking_id=%d, actor=%d", bookingID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrTerminalState):
			h.logger.Warn("PATCH /bookings/{id}/complete - Terminal state: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgTerminalState)

		case errors.Is(err, bookings.ErrInvalidTransition):
			h.logger.Warn("PATCH /bookings/{id}/complete - Invalid transition: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, bookings.ErrServiceWindowOpen):
			h.logger.Warn("PATCH /bookings/{id}/complete - Service window open: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgServiceWindowOpen)

		default:
			h.logger.Error("PATCH /bookings/{id}/complete - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	booking, err := h.service.GetByID(r.Context(), bookingID, actor)
	if err != nil {
		h.logger.Error("PATCH /bookings/{id}/complete - Failed to reload booking: booking_id=%d, error=%v", bookingID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PATCH /bookings/{id}/complete - Booking completed: booking_id=%d, actor=%d", bookingID, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
