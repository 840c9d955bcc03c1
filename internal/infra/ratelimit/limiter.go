package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrStore возвращается, когда хранилище счётчиков недоступно
var ErrStore = errors.New("ratelimit: store failure")

// Store хранилище счётчиков фиксированного окна.
// Incr увеличивает счётчик ключа и возвращает новое значение; ключ живёт не меньше ttl.
type Store interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Result решение по одному запросу
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter ограничивает число запросов клиента в фиксированном окне
type Limiter struct {
	store        Store
	maxRequests  int
	window       time.Duration
	keyPrefix    string
	timeProvider TimeProvider
}

// NewLimiter создаёт лимитер. clock может быть nil, тогда используется системное время.
func NewLimiter(store Store, maxRequests int, window time.Duration, keyPrefix string, clock TimeProvider) *Limiter {
	if clock == nil {
		clock = &RealTimeProvider{}
	}
	return &Limiter{
		store:        store,
		maxRequests:  maxRequests,
		window:       window,
		keyPrefix:    keyPrefix,
		timeProvider: clock,
	}
}

// Allow учитывает запрос клиента и сообщает, укладывается ли он в лимит текущего окна
func (l *Limiter) Allow(ctx context.Context, client string) (Result, error) {
	now := l.timeProvider.Now()
	windowStart := now.Truncate(l.window)
	resetAt := windowStart.Add(l.window)

	count, err := l.store.Incr(ctx, l.key(client, windowStart), resetAt.Sub(now))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrStore, err)
	}

	remaining := l.maxRequests - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   count <= int64(l.maxRequests),
		Limit:     l.maxRequests,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

func (l *Limiter) key(client string, windowStart time.Time) string {
	return l.keyPrefix + client + ":" + strconv.FormatInt(windowStart.Unix(), 10)
}
