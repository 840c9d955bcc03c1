package create_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/campus-booking/internal/domain"
	bookingRepo "github.com/m04kA/campus-booking/internal/infra/storage/booking"
	resourceRepo "github.com/m04kA/campus-booking/internal/infra/storage/resource"
	"github.com/m04kA/campus-booking/internal/service/conflicts"
	"github.com/m04kA/campus-booking/pkg/types"
)

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	args := m.Called(ctx, booking)
	if fn, ok := args.Get(0).(func(context.Context, *domain.Booking) *domain.Booking); ok {
		return fn(ctx, booking), args.Error(1)
	}
	if b, ok := args.Get(0).(*domain.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockResourceRepo struct {
	mock.Mock
}

func (m *mockResourceRepo) LockForUpdate(ctx context.Context, id int64) (*domain.Resource, error) {
	args := m.Called(ctx, id)
	if r, ok := args.Get(0).(*domain.Resource); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSuggester struct {
	mock.Mock
}

func (m *mockSuggester) Suggest(ctx context.Context, resource *domain.Resource, interval domain.Interval) (domain.Alternatives, error) {
	args := m.Called(ctx, resource, interval)
	return args.Get(0).(domain.Alternatives), args.Error(1)
}

// overlapStore отдаёт детектору заранее заданные бронирования ресурса
type overlapStore struct {
	existing []*domain.Booking
}

func (s *overlapStore) GetByID(context.Context, int64) (*domain.Booking, error) {
	return nil, errors.New("not used")
}

func (s *overlapStore) FindOverlapping(_ context.Context, _ int64, _ domain.Interval, _ int64) ([]*domain.Booking, error) {
	return s.existing, nil
}

func (s *overlapStore) Update(context.Context, *domain.Booking) error {
	return nil
}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingMetrics struct {
	outcomes []string
}

func (m *recordingMetrics) IncBookingDecision(outcome string) {
	m.outcomes = append(m.outcomes, outcome)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var now = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

func at(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func everyDay(start, end string) domain.WeeklyAvailability {
	w := domain.Window{Start: types.MustTimeString(start), End: types.MustTimeString(end)}
	a := domain.WeeklyAvailability{}
	for _, d := range []domain.Weekday{domain.Monday, domain.Tuesday, domain.Wednesday, domain.Thursday, domain.Friday, domain.Saturday, domain.Sunday} {
		a[d] = domain.DayAvailability{Enabled: true, Windows: []domain.Window{w}}
	}
	return a
}

func room(requiresApproval bool) *domain.Resource {
	return &domain.Resource{
		ID:                 7,
		Name:               "Room 101",
		Type:               domain.ResourceRoom,
		WeeklyAvailability: everyDay("00:00", "23:00"),
		BookingRestrictions: domain.BookingRestrictions{
			AdvanceBookingDays:    30,
			MinBookingNoticeHours: 1,
		},
		RequiresApproval: requiresApproval,
		IsActive:         true,
	}
}

type fixture struct {
	bookings  *mockBookingRepo
	resources *mockResourceRepo
	store     *overlapStore
	suggester *mockSuggester
	metrics   *recordingMetrics
	uc        *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		bookings:  &mockBookingRepo{},
		resources: &mockResourceRepo{},
		store:     &overlapStore{},
		suggester: &mockSuggester{},
		metrics:   &recordingMetrics{},
	}
	detector := conflicts.NewDetector(f.store, passthroughTx{}, nopLogger{})
	f.uc = NewUseCase(f.bookings, f.resources, detector, f.suggester, passthroughTx{}, f.metrics, time.UTC, nopLogger{})
	f.uc.timeProvider = fixedClock{now: now}
	return f
}

func request(start, end time.Time) *Request {
	return &Request{
		UserID:     42,
		ResourceID: 7,
		Title:      "Seminar",
		Start:      start,
		End:        end,
	}
}

// echoCreate возвращает созданное бронирование с присвоенным ID
func echoCreate(repo *mockBookingRepo) {
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).
		Return(func(_ context.Context, b *domain.Booking) *domain.Booking {
			created := *b
			created.ID = 100
			return &created
		}, nil)
}

func TestUseCase_Execute_Accepted(t *testing.T) {
	tests := []struct {
		name             string
		requiresApproval bool
		wantStatus       domain.BookingStatus
	}{
		{name: "no approval required", requiresApproval: false, wantStatus: domain.StatusConfirmed},
		{name: "approval required", requiresApproval: true, wantStatus: domain.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.resources.On("LockForUpdate", mock.Anything, int64(7)).Return(room(tt.requiresApproval), nil)
			echoCreate(f.bookings)

			resp, err := f.uc.Execute(context.Background(), request(at(2025, 1, 15, 10, 0), at(2025, 1, 15, 11, 0)))

			require.NoError(t, err)
			assert.Equal(t, int64(100), resp.ID)
			assert.Equal(t, string(tt.wantStatus), resp.Status)
			assert.Equal(t, 60, resp.DurationMinutes)
			assert.Equal(t, string(domain.PriorityMedium), resp.Priority)
			assert.Equal(t, string(domain.SourceWeb), resp.Source)
			assert.False(t, resp.ConflictStatus.HasConflict)
			assert.Equal(t, []string{string(Accepted)}, f.metrics.outcomes)
			f.suggester.AssertNotCalled(t, "Suggest", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUseCase_Execute_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		resource *domain.Resource
		start    time.Time
		end      time.Time
		wantErr  error
		wantKind error
		outcome  Decision
	}{
		{
			name:     "end before start",
			resource: room(false),
			start:    at(2025, 1, 15, 11, 0),
			end:      at(2025, 1, 15, 10, 0),
			wantErr:  domain.ErrEndBeforeStart,
			wantKind: domain.ErrInvalidInterval,
			outcome:  RejectedInvalidInterval,
		},
		{
			name:     "past",
			resource: room(false),
			start:    at(2024, 12, 31, 10, 0),
			end:      at(2024, 12, 31, 11, 0),
			wantErr:  domain.ErrPastBooking,
			wantKind: domain.ErrPastBooking,
			outcome:  RejectedPastBooking,
		},
		{
			name:     "too far ahead",
			resource: room(false),
			start:    at(2025, 3, 1, 10, 0),
			end:      at(2025, 3, 1, 11, 0),
			wantErr:  domain.ErrTooFarAhead,
			wantKind: domain.ErrPolicyViolation,
			outcome:  RejectedTooFarAhead,
		},
		{
			name:     "insufficient notice",
			resource: room(false),
			start:    at(2025, 1, 1, 0, 30),
			end:      at(2025, 1, 1, 1, 30),
			wantErr:  domain.ErrInsufficientNotice,
			wantKind: domain.ErrPolicyViolation,
			outcome:  RejectedInsufficientNotice,
		},
		{
			name: "outside availability",
			resource: func() *domain.Resource {
				r := room(false)
				r.WeeklyAvailability = everyDay("09:00", "17:00")
				return r
			}(),
			start:    at(2025, 1, 15, 16, 30),
			end:      at(2025, 1, 15, 17, 30),
			wantErr:  domain.ErrOutsideAvailability,
			wantKind: domain.ErrOutsideAvailability,
			outcome:  RejectedOutsideAvailability,
		},
		{
			name: "crossing local midnight",
			resource: func() *domain.Resource {
				r := room(false)
				r.WeeklyAvailability = everyDay("00:00", "23:59")
				return r
			}(),
			start:    at(2025, 1, 15, 22, 0),
			end:      at(2025, 1, 16, 1, 0),
			wantErr:  domain.ErrOutsideAvailability,
			wantKind: domain.ErrOutsideAvailability,
			outcome:  RejectedOutsideAvailability,
		},
		{
			name:     "duration below minimum",
			resource: room(false),
			start:    at(2025, 1, 15, 10, 0),
			end:      at(2025, 1, 15, 10, 10),
			wantErr:  domain.ErrDurationOutOfBounds,
			wantKind: domain.ErrInvalidInterval,
			outcome:  RejectedInvalidInterval,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.resources.On("LockForUpdate", mock.Anything, int64(7)).Return(tt.resource, nil)

			resp, err := f.uc.Execute(context.Background(), request(tt.start, tt.end))

			require.Error(t, err)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, tt.wantKind)
			assert.Equal(t, []string{string(tt.outcome)}, f.metrics.outcomes)
			f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestUseCase_Execute_DefaultRestrictions(t *testing.T) {
	f := newFixture()
	r := room(false)
	r.BookingRestrictions = domain.BookingRestrictions{}
	f.resources.On("LockForUpdate", mock.Anything, int64(7)).Return(r, nil)

	// 31 день вперёд при значении по умолчанию 30
	_, err := f.uc.Execute(context.Background(), request(at(2025, 2, 1, 10, 0), at(2025, 2, 1, 11, 0)))
	assert.ErrorIs(t, err, domain.ErrTooFarAhead)

	// 30 минут при уведомлении по умолчанию 1 час
	_, err = f.uc.Execute(context.Background(), request(at(2025, 1, 1, 0, 30), at(2025, 1, 1, 1, 30)))
	assert.ErrorIs(t, err, domain.ErrInsufficientNotice)
}

func TestUseCase_Execute_Conflict(t *testing.T) {
	f := newFixture()
	existing := &domain.Booking{
		ID:         1,
		ResourceID: 7,
		StartTime:  at(2025, 1, 15, 10, 0),
		EndTime:    at(2025, 1, 15, 11, 0),
		Status:     domain.StatusConfirmed,
	}
	f.store.existing = []*domain.Booking{existing}
	resource := room(false)
	f.resources.On("LockForUpdate", mock.Anything, int64(7)).Return(resource, nil)

	requested := domain.Interval{Start: at(2025, 1, 15, 10, 30), End: at(2025, 1, 15, 11, 30)}
	alternatives := domain.Alternatives{
		Slots: []domain.Interval{requested.ShiftDays(1, time.UTC)},
	}
	f.suggester.On("Suggest", mock.Anything, resource, requested).Return(alternatives, nil)

	resp, err := f.uc.Execute(context.Background(), request(requested.Start, requested.End))

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrConflict)

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	require.Len(t, conflictErr.Conflicts, 1)
	assert.Equal(t, int64(1), conflictErr.Conflicts[0].ID)
	assert.Equal(t, alternatives, conflictErr.Alternatives)
	assert.Equal(t, []string{string(RejectedConflict)}, f.metrics.outcomes)
	f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUseCase_Execute_TouchingIsAccepted(t *testing.T) {
	f := newFixture()
	f.store.existing = []*domain.Booking{{
		ID:         1,
		ResourceID: 7,
		StartTime:  at(2025, 1, 15, 10, 0),
		EndTime:    at(2025, 1, 15, 11, 0),
		Status:     domain.StatusConfirmed,
	}}
	f.resources.On("LockForUpdate", mock.Anything, int64(7)).Return(room(false), nil)
	echoCreate(f.bookings)

	resp, err := f.uc.Execute(context.Background(), request(at(2025, 1, 15, 11, 0), at(2025, 1, 15, 12, 0)))

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestUseCase_Execute_ConflictWithoutAlternatives(t *testing.T) {
	f := newFixture()
	f.store.existing = []*domain.Booking{{
		ID:         1,
		ResourceID: 7,
		StartTime:  at(2025, 1, 15, 10, 0),
		EndTime:    at(2025, 1, 15, 11, 0),
		Status:     domain.StatusActive,
	}}
	f.resources.On("LockForUpdate", mock.Anything, int64(7)).Return(room(false), nil)
	f.suggester.On("Suggest", mock.Anything, mock.Anything, mock.Anything).
		Return(domain.Alternatives{}, errors.New("db down"))

	_, err := f.uc.Execute(context.Background(), request(at(2025, 1, 15, 10, 0), at(2025, 1, 15, 11, 0)))

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Len(t, conflictErr.Conflicts, 1)
	assert.Empty(t, conflictErr.Alternatives.Slots)
}

func TestUseCase_Execute_StoreOverlap(t *testing.T) {
	f := newFixture()
	f.resources.On("LockForUpdate", mock.Anything, int64(7)).Return(room(false), nil)
	f.bookings.On("Create", mock.Anything, mock.Anything).Return(nil, bookingRepo.ErrOverlap)
	f.suggester.On("Suggest", mock.Anything, mock.Anything, mock.Anything).Return(domain.Alternatives{}, nil)

	_, err := f.uc.Execute(context.Background(), request(at(2025, 1, 15, 10, 0), at(2025, 1, 15, 11, 0)))

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, []string{string(RejectedConflict)}, f.metrics.outcomes)
	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Empty(t, conflictErr.Conflicts)
}

func TestUseCase_Execute_ResourceNotFound(t *testing.T) {
	f := newFixture()
	f.resources.On("LockForUpdate", mock.Anything, int64(7)).Return(nil, resourceRepo.ErrResourceNotFound)

	_, err := f.uc.Execute(context.Background(), request(at(2025, 1, 15, 10, 0), at(2025, 1, 15, 11, 0)))

	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestUseCase_Execute_InternalError(t *testing.T) {
	f := newFixture()
	f.resources.On("LockForUpdate", mock.Anything, int64(7)).Return(room(false), nil)
	f.bookings.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	_, err := f.uc.Execute(context.Background(), request(at(2025, 1, 15, 10, 0), at(2025, 1, 15, 11, 0)))

	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, []string{string(Failed)}, f.metrics.outcomes)
}

func TestUseCase_Execute_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *Request)
	}{
		{name: "empty title", modify: func(r *Request) { r.Title = "  " }},
		{name: "unknown priority", modify: func(r *Request) { p := "urgent"; r.Priority = &p }},
		{name: "unknown source", modify: func(r *Request) { r.Metadata.Source = "fax" }},
		{name: "missing user", modify: func(r *Request) { r.UserID = 0 }},
		{name: "recurrence without pattern", modify: func(r *Request) { r.Recurrence = &domain.Recurrence{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := request(at(2025, 1, 15, 10, 0), at(2025, 1, 15, 11, 0))
			tt.modify(req)

			_, err := f.uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, []string{string(RejectedInvalidInput)}, f.metrics.outcomes)
			f.resources.AssertNotCalled(t, "LockForUpdate", mock.Anything, mock.Anything)
		})
	}
}

func TestUseCase_Execute_StoresMetadata(t *testing.T) {
	f := newFixture()
	f.resources.On("LockForUpdate", mock.Anything, int64(7)).Return(room(false), nil)
	f.bookings.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Metadata.Source == domain.SourceMobile &&
			b.Metadata.RequestID == "req-1" &&
			b.Priority == domain.PriorityHigh &&
			b.Recurrence != nil && b.Recurrence.Pattern == "weekly"
	})).Return(&domain.Booking{ID: 5, Status: domain.StatusConfirmed}, nil)

	req := request(at(2025, 1, 15, 10, 0), at(2025, 1, 15, 11, 0))
	priority := "high"
	req.Priority = &priority
	req.Recurrence = &domain.Recurrence{Pattern: "weekly"}
	req.Metadata = RequestMetadata{Source: "mobile", RequestID: "req-1"}

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.ID)
	f.bookings.AssertExpectations(t)
}
