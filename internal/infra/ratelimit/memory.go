package ratelimit

import (
	"context"
	"sync"
	"time"
)

// sweepEvery число вызовов Incr между полными очистками просроченных ключей
const sweepEvery = 1024

type counter struct {
	value     int64
	expiresAt time.Time
}

// MemoryStore счётчики в памяти процесса. Подходит для одного экземпляра сервиса.
type MemoryStore struct {
	mu           sync.Mutex
	counters     map[string]*counter
	calls        int
	timeProvider TimeProvider
}

// NewMemoryStore создаёт хранилище. clock может быть nil.
func NewMemoryStore(clock TimeProvider) *MemoryStore {
	if clock == nil {
		clock = &RealTimeProvider{}
	}
	return &MemoryStore{
		counters:     make(map[string]*counter),
		timeProvider: clock,
	}
}

func (s *MemoryStore) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	now := s.timeProvider.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.calls%sweepEvery == 0 {
		s.sweep(now)
	}

	c, ok := s.counters[key]
	if !ok || !now.Before(c.expiresAt) {
		c = &counter{expiresAt: now.Add(ttl)}
		s.counters[key] = c
	}
	c.value++
	return c.value, nil
}

// Len число хранимых ключей, включая ещё не удалённые просроченные
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.counters)
}

// Sweep удаляет просроченные ключи
func (s *MemoryStore) Sweep() {
	now := s.timeProvider.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(now)
}

func (s *MemoryStore) sweep(now time.Time) {
	for key, c := range s.counters {
		if !now.Before(c.expiresAt) {
			delete(s.counters, key)
		}
	}
}
