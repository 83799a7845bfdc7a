package get_provider_bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/HMS-BookingService/internal/api/handlers"
	"github.com/m04kA/HMS-BookingService/internal/api/middleware"
	"github.com/m04kA/HMS-BookingService/internal/domain"
	"github.com/m04kA/HMS-BookingService/internal/service/bookings"
	"github.com/m04kA/HMS-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidProviderID = "некорректный ID исполнителя"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidFilter     = "некорректные параметры фильтра"
	msgMissingActor      = "отсутствует идентификация пользователя"
	msgForbidden         = "доступ запрещен"
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

// Handle GET /api/v1/providers/{providerId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /providers/{providerId}/bookings - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		h.logger.Warn("GET /providers/{providerId}/bookings - Missing actor in context")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	serviceReq, err := parseQuery(r, actor, providerID)
	if err != nil {
		h.logger.Warn("GET /providers/{providerId}/bookings - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.GetProviderBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /providers/{providerId}/bookings - Access denied: provider_id=%d, actor=%d",
				providerID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /providers/{providerId}/bookings - Invalid filter: provider_id=%d", providerID)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /providers/{providerId}/bookings - Failed: provider_id=%d, error=%v", providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /providers/{providerId}/bookings - Retrieved %d bookings: provider_id=%d, actor=%d",
		len(result.Bookings), providerID, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// parseQuery разбирает query-параметры фильтра
func parseQuery(r *http.Request, actor models.Actor, providerID int64) (*models.GetProviderBookingsRequest, error) {
	query := r.URL.Query()

	req := &models.GetProviderBookingsRequest{
		Actor:           actor,
		ProviderID:      providerID,
		IncludeRejected: query.Get("includeRejected") == "true",
		SortDescending:  query.Get("sort") == "desc",
	}

	if raw := query.Get("startDate"); raw != "" {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.StartDate = &date
	}

	if raw := query.Get("endDate"); raw != "" {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.EndDate = &date
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	return req, nil
}
