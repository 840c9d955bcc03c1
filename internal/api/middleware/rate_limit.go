package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/campus-booking/internal/api/handlers"
	"github.com/m04kA/campus-booking/internal/infra/ratelimit"
)

const msgTooManyRequests = "слишком много запросов, попробуйте позже"

// Limiter лимитер запросов
type Limiter interface {
	Allow(ctx context.Context, client string) (ratelimit.Result, error)
}

// RateLimitMetrics счётчик отказов
type RateLimitMetrics interface {
	IncRateLimitRejection()
}

// RateLimit ограничивает число запросов с одного IP. При недоступности хранилища
// счётчиков запрос пропускается.
func RateLimit(limiter Limiter, m RateLimitMetrics, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := ClientIP(r)

			res, err := limiter.Allow(r.Context(), client)
			if err != nil {
				logger.Error("RateLimit: limiter unavailable for client %s: %v", client, err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed {
				m.IncRateLimitRejection()
				logger.Warn("RateLimit: client %s exceeded %d requests", client, res.Limit)
				handlers.RespondError(w, http.StatusTooManyRequests, msgTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP адрес клиента: первый адрес X-Forwarded-For, иначе RemoteAddr
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
