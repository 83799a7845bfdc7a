package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/HMS-BookingService/internal/api/handlers"
	"github.com/m04kA/HMS-BookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/HMS-BookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidProviderID = "некорректный ID исполнителя"
	msgMissingDate       = "параметр date обязателен"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgProviderNotFound  = "исполнитель не найден"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/available-slots?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /providers/{providerId}/available-slots - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	rawDate := r.URL.Query().Get("date")
	if rawDate == "" {
		h.logger.Warn("GET /providers/{providerId}/available-slots - Missing date parameter")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, rawDate)
	if err != nil {
		h.logger.Warn("GET /providers/{providerId}/available-slots - Invalid date %q: %v", rawDate, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		ProviderID: providerID,
		Date:       date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrProviderNotFound):
			h.logger.Warn("GET /providers/{providerId}/available-slots - Provider not found: provider_id=%d", providerID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /providers/{providerId}/available-slots - Invalid input: provider_id=%d: %v", providerID, err)
			handlers.RespondBadRequest(w, msgInvalidProviderID)

		default:
			h.logger.Error("GET /providers/{providerId}/available-slots - Failed: provider_id=%d, error=%v", providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /providers/{providerId}/available-slots - Retrieved %d slots: provider_id=%d, date=%s",
		len(result.Slots), providerID, rawDate)
	handlers.RespondJSON(w, http.StatusOK, result)
}
