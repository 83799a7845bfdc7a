package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/HMS-BookingService/internal/api/handlers"
	"github.com/m04kA/HMS-BookingService/internal/service/bookings/models"
)

const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"

	msgMissingIdentity = "отсутствуют заголовки идентификации пользователя"
	msgInvalidIdentity = "некорректные заголовки идентификации пользователя"
)

type actorContextKey struct{}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Auth извлекает актора из заголовков, проставленных API-шлюзом
// Сервис внутренний: шлюз уже провел аутентификацию, здесь только
// разбираем идентичность и роль
func Auth(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawID := r.Header.Get(headerUserID)
			role := r.Header.Get(headerUserRole)

			if rawID == "" || role == "" {
				logger.Warn("Auth: missing identity headers for %s %s", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgMissingIdentity)
				return
			}

			id, err := strconv.ParseInt(rawID, 10, 64)
			if err != nil || id <= 0 {
				logger.Warn("Auth: invalid user id %q for %s %s", rawID, r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgInvalidIdentity)
				return
			}

			actor := models.Actor{ID: id, Role: role}
			if err := actor.ValidateRole(); err != nil {
				logger.Warn("Auth: invalid role %q for %s %s", role, r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgInvalidIdentity)
				return
			}

			ctx := context.WithValue(r.Context(), actorContextKey{}, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext возвращает актора, проставленного Auth middleware
func ActorFromContext(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(models.Actor)
	return actor, ok
}
