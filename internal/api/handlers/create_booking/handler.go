package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/HMS-BookingService/internal/api/handlers"
	"github.com/m04kA/HMS-BookingService/internal/api/middleware"
	createBooking "github.com/m04kA/HMS-BookingService/internal/usecase/create_booking"
	"github.com/m04kA/HMS-BookingService/pkg/types"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingActor        = "отсутствует идентификация пользователя"
	msgInvalidDate         = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgInvalidTime         = "некорректный формат времени слота, ожидается например 10:00 AM"
	msgOnlyClientsCanBook  = "создавать бронирования могут только клиенты"
	msgSlotNotAvailable    = "выбранный слот недоступен"
	msgProviderNotFound    = "исполнитель не найден"
	msgClientNotFound      = "клиент не найден"
	msgProviderUnavailable = "исполнитель не принимает заявки на выбранную дату"
	msgInvalidBookingDate  = "некорректная дата бронирования"
	msgInvalidSlot         = "время не входит в сетку слотов"
	msgTooLateToBook       = "слишком поздно для бронирования этого слота"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing actor in context")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	if !actor.IsClient() {
		h.logger.Warn("POST /bookings - Non-client actor=%d role=%s tried to create booking", actor.ID, actor.Role)
		handlers.RespondForbidden(w, msgOnlyClientsCanBook)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor.ID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		if errors.Is(err, types.ErrInvalidSlotTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: client_id=%d, provider_id=%d", actor.ID, req.ProviderID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrProviderNotFound):
			h.logger.Warn("POST /bookings - Provider not found: provider_id=%d", req.ProviderID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, createBooking.ErrClientNotFound):
			h.logger.Warn("POST /bookings - Client not found: client_id=%d", actor.ID)
			handlers.RespondNotFound(w, msgClientNotFound)

		case errors.Is(err, createBooking.ErrProviderUnavailable):
			h.logger.Warn("POST /bookings - Provider unavailable: provider_id=%d", req.ProviderID)
			handlers.RespondConflict(w, msgProviderUnavailable)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: client_id=%d, date=%s", actor.ID, req.BookingDate)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrInvalidSlot):
			h.logger.Warn("POST /bookings - Invalid slot: client_id=%d, slot=%s", actor.ID, req.SlotTime)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, createBooking.ErrTooLateToBook):
			h.logger.Warn("POST /bookings - Too late to book: client_id=%d, slot=%s", actor.ID, req.SlotTime)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: client_id=%d: %v", actor.ID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: client_id=%d, provider_id=%d, error=%v",
				actor.ID, req.ProviderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, client_id=%d, provider_id=%d",
		result.ID, actor.ID, req.ProviderID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
