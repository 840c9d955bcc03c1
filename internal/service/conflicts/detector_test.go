package conflicts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/campus-booking/internal/domain"
	bookingRepo "github.com/m04kA/campus-booking/internal/infra/storage/booking"
)

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if b, ok := args.Get(0).(*domain.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingRepo) FindOverlapping(ctx context.Context, resourceID int64, interval domain.Interval, excludeID int64) ([]*domain.Booking, error) {
	args := m.Called(ctx, resourceID, interval, excludeID)
	if b, ok := args.Get(0).([]*domain.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingRepo) Update(ctx context.Context, booking *domain.Booking) error {
	return m.Called(ctx, booking).Error(0)
}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var day = time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)

func hm(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

func booking(id int64, status domain.BookingStatus, sh, sm, eh, em int) *domain.Booking {
	return &domain.Booking{ID: id, ResourceID: 1, StartTime: hm(sh, sm), EndTime: hm(eh, em), Status: status}
}

func newDetector(repo *mockBookingRepo) *Detector {
	d := NewDetector(repo, passthroughTx{}, nopLogger{})
	d.timeProvider = fixedClock{now: hm(8, 0)}
	return d
}

func ids(bs []*domain.Booking) []int64 {
	out := make([]int64, len(bs))
	for i, b := range bs {
		out[i] = b.ID
	}
	return out
}

func TestDetector_FindConflicts(t *testing.T) {
	ctx := context.Background()
	candidate := domain.Interval{Start: hm(10, 30), End: hm(11, 30)}

	repo := &mockBookingRepo{}
	repo.On("FindOverlapping", ctx, int64(1), candidate, int64(0)).Return([]*domain.Booking{
		booking(3, domain.StatusPending, 11, 0, 12, 0),
		booking(2, domain.StatusConfirmed, 10, 0, 11, 0),
		booking(4, domain.StatusCancelled, 10, 0, 11, 0),
		booking(5, domain.StatusActive, 11, 30, 12, 30),
	}, nil)

	found, err := newDetector(repo).FindConflicts(ctx, 1, candidate, 0)
	require.NoError(t, err)

	if diff := cmp.Diff([]int64{2, 3}, ids(found)); diff != "" {
		t.Errorf("conflicts mismatch (-want +got):\n%s", diff)
	}
	repo.AssertExpectations(t)
}

func TestDetector_FindConflictsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	candidate := domain.Interval{Start: hm(9, 0), End: hm(13, 0)}
	existing := []*domain.Booking{
		booking(7, domain.StatusConfirmed, 12, 0, 13, 0),
		booking(6, domain.StatusConfirmed, 9, 0, 10, 0),
		booking(8, domain.StatusConfirmed, 9, 0, 9, 30),
	}

	repo := &mockBookingRepo{}
	repo.On("FindOverlapping", ctx, int64(1), candidate, int64(0)).Return(existing, nil)
	d := newDetector(repo)

	first, err := d.FindConflicts(ctx, 1, candidate, 0)
	require.NoError(t, err)
	second, err := d.FindConflicts(ctx, 1, candidate, 0)
	require.NoError(t, err)

	assert.Equal(t, []int64{6, 8, 7}, ids(first))
	assert.Equal(t, ids(first), ids(second))
}

func TestDetector_FindConflictsExcludesBooking(t *testing.T) {
	ctx := context.Background()
	candidate := domain.Interval{Start: hm(10, 0), End: hm(11, 0)}

	repo := &mockBookingRepo{}
	repo.On("FindOverlapping", ctx, int64(1), candidate, int64(2)).Return([]*domain.Booking{
		booking(2, domain.StatusConfirmed, 10, 0, 11, 0),
	}, nil)

	found, err := newDetector(repo).FindConflicts(ctx, 1, candidate, 2)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestDetector_FindConflictsErrors(t *testing.T) {
	ctx := context.Background()
	repo := &mockBookingRepo{}
	d := newDetector(repo)

	_, err := d.FindConflicts(ctx, 1, domain.Interval{Start: hm(11, 0), End: hm(10, 0)}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInterval)

	candidate := domain.Interval{Start: hm(10, 0), End: hm(11, 0)}
	repo.On("FindOverlapping", ctx, int64(1), candidate, int64(0)).Return(nil, errors.New("db down"))
	_, err = d.FindConflicts(ctx, 1, candidate, 0)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestDetector_RefreshConflictStatus(t *testing.T) {
	ctx := context.Background()
	target := booking(1, domain.StatusConfirmed, 10, 0, 11, 0)

	repo := &mockBookingRepo{}
	repo.On("GetByID", ctx, int64(1)).Return(target, nil)
	repo.On("FindOverlapping", ctx, int64(1), target.Interval(), int64(1)).Return([]*domain.Booking{
		booking(9, domain.StatusPending, 10, 30, 11, 30),
	}, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.ID == 1 && b.ConflictStatus.HasConflict
	})).Return(nil)

	updated, err := newDetector(repo).RefreshConflictStatus(ctx, 1)
	require.NoError(t, err)

	assert.True(t, updated.ConflictStatus.HasConflict)
	assert.False(t, updated.ConflictStatus.Resolved)
	assert.Equal(t, []int64{9}, updated.ConflictStatus.ConflictingBookings)
	assert.Equal(t, hm(8, 0), *updated.ConflictStatus.CheckedAt)
	repo.AssertExpectations(t)
}

func TestDetector_RefreshConflictStatusNotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mockBookingRepo{}
	repo.On("GetByID", ctx, int64(5)).Return(nil, bookingRepo.ErrBookingNotFound)

	_, err := newDetector(repo).RefreshConflictStatus(ctx, 5)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestSnapshot_NoConflicts(t *testing.T) {
	s := Snapshot(nil, hm(8, 0))
	assert.False(t, s.HasConflict)
	assert.True(t, s.Resolved)
	assert.Empty(t, s.ConflictingBookings)
	assert.Empty(t, s.Notes)
}
