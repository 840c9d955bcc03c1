package check_availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/campus-booking/internal/domain"
	resourceRepo "github.com/m04kA/campus-booking/internal/infra/storage/resource"
	"github.com/m04kA/campus-booking/pkg/types"
)

type mockResourceRepo struct {
	mock.Mock
}

func (m *mockResourceRepo) GetActiveByID(ctx context.Context, id int64) (*domain.Resource, error) {
	args := m.Called(ctx, id)
	if r, ok := args.Get(0).(*domain.Resource); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockDetector struct {
	mock.Mock
}

func (m *mockDetector) FindConflicts(ctx context.Context, resourceID int64, interval domain.Interval, excludeID int64) ([]*domain.Booking, error) {
	args := m.Called(ctx, resourceID, interval, excludeID)
	if b, ok := args.Get(0).([]*domain.Booking); ok {
		return b, args.Error(1)
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

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func auditorium() *domain.Resource {
	return &domain.Resource{
		ID:   9,
		Name: "Main Hall",
		Type: domain.ResourceAuditorium,
		WeeklyAvailability: domain.WeeklyAvailability{
			domain.Wednesday: {Enabled: true, Windows: []domain.Window{
				{Start: types.MustTimeString("09:00"), End: types.MustTimeString("17:00")},
			}},
		},
		IsActive: true,
	}
}

// 2025-01-15, среда
var wednesday = time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)

func request(start, end string) *Request {
	return &Request{
		ResourceID: 9,
		Date:       wednesday,
		StartTime:  types.MustTimeString(start),
		EndTime:    types.MustTimeString(end),
	}
}

func TestUseCase_Execute(t *testing.T) {
	requested := domain.Interval{
		Start: time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.January, 15, 11, 0, 0, 0, time.UTC),
	}

	t.Run("available", func(t *testing.T) {
		repo, detector, suggester := &mockResourceRepo{}, &mockDetector{}, &mockSuggester{}
		repo.On("GetActiveByID", mock.Anything, int64(9)).Return(auditorium(), nil)
		detector.On("FindConflicts", mock.Anything, int64(9), requested, int64(0)).Return(nil, nil)

		resp, err := NewUseCase(repo, detector, suggester, time.UTC, nopLogger{}).
			Execute(context.Background(), request("10:00", "11:00"))

		require.NoError(t, err)
		assert.True(t, resp.WithinAvailability)
		assert.True(t, resp.Available)
		assert.False(t, resp.HasConflicts)
		assert.Empty(t, resp.Conflicts)
		assert.Nil(t, resp.Alternatives)
		suggester.AssertNotCalled(t, "Suggest", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("outside availability skips conflict check", func(t *testing.T) {
		repo, detector, suggester := &mockResourceRepo{}, &mockDetector{}, &mockSuggester{}
		repo.On("GetActiveByID", mock.Anything, int64(9)).Return(auditorium(), nil)

		resp, err := NewUseCase(repo, detector, suggester, time.UTC, nopLogger{}).
			Execute(context.Background(), request("16:00", "18:00"))

		require.NoError(t, err)
		assert.False(t, resp.WithinAvailability)
		assert.False(t, resp.Available)
		detector.AssertNotCalled(t, "FindConflicts", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("conflict with alternatives", func(t *testing.T) {
		repo, detector, suggester := &mockResourceRepo{}, &mockDetector{}, &mockSuggester{}
		resource := auditorium()
		repo.On("GetActiveByID", mock.Anything, int64(9)).Return(resource, nil)
		detector.On("FindConflicts", mock.Anything, int64(9), requested, int64(0)).Return([]*domain.Booking{
			{ID: 4, ResourceID: 9, StartTime: requested.Start, EndTime: requested.End, Status: domain.StatusConfirmed},
		}, nil)
		suggester.On("Suggest", mock.Anything, resource, requested).Return(domain.Alternatives{
			Resources: []*domain.Resource{{ID: 10, Name: "Small Hall", Type: domain.ResourceAuditorium}},
			Slots:     []domain.Interval{requested.ShiftDays(1, time.UTC)},
		}, nil)

		resp, err := NewUseCase(repo, detector, suggester, time.UTC, nopLogger{}).
			Execute(context.Background(), request("10:00", "11:00"))

		require.NoError(t, err)
		assert.True(t, resp.WithinAvailability)
		assert.False(t, resp.Available)
		assert.True(t, resp.HasConflicts)
		require.Len(t, resp.Conflicts, 1)
		assert.Equal(t, int64(4), resp.Conflicts[0].ID)
		require.NotNil(t, resp.Alternatives)
		require.Len(t, resp.Alternatives.Resources, 1)
		assert.Equal(t, int64(10), resp.Alternatives.Resources[0].ID)
		assert.Len(t, resp.Alternatives.Slots, 1)
	})
}

func TestUseCase_ExecuteErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		repoErr error
		wantErr error
	}{
		{name: "end before start", req: request("11:00", "10:00"), wantErr: ErrInvalidInput},
		{name: "non canonical time", req: &Request{ResourceID: 9, Date: wednesday, StartTime: "9:00", EndTime: "10:00"}, wantErr: ErrInvalidInput},
		{name: "missing date", req: &Request{ResourceID: 9, StartTime: "09:00", EndTime: "10:00"}, wantErr: ErrInvalidInput},
		{name: "not found", req: request("10:00", "11:00"), repoErr: resourceRepo.ErrResourceNotFound, wantErr: ErrResourceNotFound},
		{name: "repository failure", req: request("10:00", "11:00"), repoErr: errors.New("timeout"), wantErr: ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockResourceRepo{}
			repo.On("GetActiveByID", mock.Anything, int64(9)).Return(nil, tt.repoErr)

			_, err := NewUseCase(repo, &mockDetector{}, &mockSuggester{}, time.UTC, nopLogger{}).
				Execute(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
