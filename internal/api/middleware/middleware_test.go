package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/campus-booking/internal/domain"
	"github.com/m04kA/campus-booking/internal/infra/ratelimit"
	"github.com/m04kA/campus-booking/internal/integrations/userservice"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubResolver struct {
	users map[int64]*userservice.User
	err   error
}

func (s stubResolver) GetUser(_ context.Context, id int64) (*userservice.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, userservice.ErrUserNotFound
}

func TestAuth(t *testing.T) {
	resolver := stubResolver{users: map[int64]*userservice.User{
		1: {ID: 1, Role: "admin", IsActive: true},
		2: {ID: 2, Role: "user", IsActive: true},
		3: {ID: 3, Role: "user", IsActive: false},
		4: {ID: 4, Role: "faculty", IsActive: true},
	}}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantActor  domain.Actor
	}{
		{name: "admin", header: "1", wantStatus: http.StatusOK, wantActor: domain.Actor{ID: 1, Role: domain.RoleAdmin}},
		{name: "user", header: "2", wantStatus: http.StatusOK, wantActor: domain.Actor{ID: 2, Role: domain.RoleUser}},
		{name: "unknown role is user", header: "4", wantStatus: http.StatusOK, wantActor: domain.Actor{ID: 4, Role: domain.RoleUser}},
		{name: "inactive", header: "3", wantStatus: http.StatusUnauthorized},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "malformed header", header: "abc", wantStatus: http.StatusUnauthorized},
		{name: "unknown user", header: "99", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.Actor
			handler := Auth(resolver, nopLogger{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = GetActor(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
			if tt.header != "" {
				req.Header.Set(UserHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantActor, got)
		})
	}
}

func TestAuth_UserServiceDown(t *testing.T) {
	handler := Auth(stubResolver{err: errors.New("timeout")}, nopLogger{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(UserHeader, "1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	given := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, given)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, given, seen)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type countingMetrics struct {
	rejections int
	observed   []string
}

func (m *countingMetrics) IncRateLimitRejection() { m.rejections++ }

func (m *countingMetrics) ObserveHTTP(method, path string, _ int, _ time.Duration) {
	m.observed = append(m.observed, method+" "+path)
}

func TestRateLimit(t *testing.T) {
	clock := fixedClock{now: time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)}
	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore(clock), 2, time.Minute, "rl:", clock)
	m := &countingMetrics{}
	handler := RateLimit(limiter, m, nopLogger{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 1, m.rejections)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.10:4000"
	assert.Equal(t, "192.168.1.10", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", ClientIP(req))
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	m := &countingMetrics{}
	r := mux.NewRouter()
	r.Use(Metrics(m))
	r.HandleFunc("/api/v1/bookings/{id}", func(w http.ResponseWriter, r *http.Request) {}).Methods(http.MethodGet)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/bookings/42", nil))

	assert.Equal(t, []string{"GET /api/v1/bookings/{id}"}, m.observed)
}

func TestOptionalAuth(t *testing.T) {
	resolver := stubResolver{users: map[int64]*userservice.User{
		1: {ID: 1, Role: "admin", IsActive: true},
	}}

	var (
		actor domain.Actor
		found bool
	)
	handler := OptionalAuth(resolver, nopLogger{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, found = GetActor(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/resources", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, found)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resources", nil)
	req.Header.Set(UserHeader, "1")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, found)
	assert.True(t, actor.IsAdmin())

	req = httptest.NewRequest(http.MethodGet, "/api/v1/resources", nil)
	req.Header.Set(UserHeader, "99")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
