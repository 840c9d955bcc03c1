package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/campus-booking/internal/api/handlers"
	"github.com/m04kA/campus-booking/internal/domain"
	"github.com/m04kA/campus-booking/internal/integrations/userservice"
)

// UserHeader заголовок с ID пользователя, выставляемый API-шлюзом
const UserHeader = "X-User-ID"

const (
	msgMissingUserID   = "отсутствует ID пользователя"
	msgInvalidUserID   = "некорректный ID пользователя"
	msgUserNotFound    = "пользователь не найден"
	msgUserInactive    = "учётная запись пользователя отключена"
	msgUserUnavailable = "сервис пользователей недоступен"
)

// UserResolver получает пользователя по ID
type UserResolver interface {
	GetUser(ctx context.Context, userID int64) (*userservice.User, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Auth разрешает X-User-ID через сервис пользователей и кладёт domain.Actor в контекст.
// Отключённые пользователи получают 401.
func Auth(resolver UserResolver, logger Logger) func(http.Handler) http.Handler {
	return authenticate(resolver, logger, true)
}

// OptionalAuth как Auth, но запрос без X-User-ID пропускается анонимно
func OptionalAuth(resolver UserResolver, logger Logger) func(http.Handler) http.Handler {
	return authenticate(resolver, logger, false)
}

func authenticate(resolver UserResolver, logger Logger, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(UserHeader)
			if raw == "" {
				if !required {
					next.ServeHTTP(w, r)
					return
				}
				handlers.RespondUnauthorized(w, msgMissingUserID)
				return
			}

			userID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || userID <= 0 {
				logger.Warn("Auth: invalid %s header %q", UserHeader, raw)
				handlers.RespondUnauthorized(w, msgInvalidUserID)
				return
			}

			user, err := resolver.GetUser(r.Context(), userID)
			if err != nil {
				if errors.Is(err, userservice.ErrUserNotFound) {
					logger.Warn("Auth: user id=%d not found", userID)
					handlers.RespondUnauthorized(w, msgUserNotFound)
					return
				}
				logger.Error("Auth: failed to resolve user id=%d: %v", userID, err)
				handlers.RespondError(w, http.StatusServiceUnavailable, msgUserUnavailable)
				return
			}

			if !user.IsActive {
				logger.Warn("Auth: user id=%d is inactive", userID)
				handlers.RespondUnauthorized(w, msgUserInactive)
				return
			}

			actor := domain.Actor{ID: user.ID, Role: roleOf(user.Role)}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func roleOf(role string) domain.Role {
	if domain.Role(role) == domain.RoleAdmin {
		return domain.RoleAdmin
	}
	return domain.RoleUser
}
