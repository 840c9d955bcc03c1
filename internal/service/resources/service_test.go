package resources

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/campus-booking/internal/domain"
	resourceRepo "github.com/m04kA/campus-booking/internal/infra/storage/resource"
	"github.com/m04kA/campus-booking/internal/service/access"
	"github.com/m04kA/campus-booking/internal/service/resources/models"
	"github.com/m04kA/campus-booking/pkg/ptr"
	"github.com/m04kA/campus-booking/pkg/types"
)

type mockResourceRepo struct {
	mock.Mock
}

func (m *mockResourceRepo) Create(ctx context.Context, res *domain.Resource) (*domain.Resource, error) {
	args := m.Called(ctx, res)
	if r, ok := args.Get(0).(*domain.Resource); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockResourceRepo) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	args := m.Called(ctx, id)
	if r, ok := args.Get(0).(*domain.Resource); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockResourceRepo) List(ctx context.Context, filter domain.ResourceFilter) ([]*domain.Resource, error) {
	args := m.Called(ctx, filter)
	if r, ok := args.Get(0).([]*domain.Resource); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockResourceRepo) Update(ctx context.Context, res *domain.Resource) (*domain.Resource, error) {
	args := m.Called(ctx, res)
	if r, ok := args.Get(0).(*domain.Resource); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockResourceRepo) Deactivate(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	admin = domain.Actor{ID: 1, Role: domain.RoleAdmin}
	user  = domain.Actor{ID: 2, Role: domain.RoleUser}
)

func validRequest() *models.CreateResourceRequest {
	return &models.CreateResourceRequest{
		Name:     "Seminar Room 101",
		Type:     "room",
		Capacity: 30,
		WeeklyAvailability: domain.WeeklyAvailability{
			domain.Monday: {Enabled: true, Windows: []domain.Window{{Start: types.MustTimeString("08:00"), End: types.MustTimeString("20:00")}}},
		},
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	repo := &mockResourceRepo{}
	svc := NewService(repo, access.NewPolicy(), nopLogger{})

	repo.On("Create", ctx, mock.MatchedBy(func(r *domain.Resource) bool {
		return r.IsActive &&
			r.BookingRestrictions.AdvanceBookingDays == domain.DefaultAdvanceBookingDays &&
			r.MaxBookingHours == domain.DefaultMaxBookingHours
	})).Return(&domain.Resource{ID: 4, Name: "Seminar Room 101", Type: domain.ResourceRoom, IsActive: true}, nil)

	resp, err := svc.Create(ctx, admin, validRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.ID)
	repo.AssertExpectations(t)
}

func TestService_CreateRejects(t *testing.T) {
	ctx := context.Background()
	repo := &mockResourceRepo{}
	svc := NewService(repo, access.NewPolicy(), nopLogger{})

	_, err := svc.Create(ctx, user, validRequest())
	assert.ErrorIs(t, err, ErrAccessDenied)

	bad := validRequest()
	bad.Type = "garage"
	_, err = svc.Create(ctx, admin, bad)
	assert.ErrorIs(t, err, ErrInvalidInput)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_GetByIDHidesInactiveFromUsers(t *testing.T) {
	ctx := context.Background()
	repo := &mockResourceRepo{}
	svc := NewService(repo, access.NewPolicy(), nopLogger{})
	repo.On("GetByID", ctx, int64(3)).Return(&domain.Resource{ID: 3, IsActive: false}, nil)
	repo.On("GetByID", ctx, int64(4)).Return(nil, resourceRepo.ErrResourceNotFound)

	_, err := svc.GetByID(ctx, user, 3)
	assert.ErrorIs(t, err, ErrResourceNotFound)

	resp, err := svc.GetByID(ctx, admin, 3)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)

	_, err = svc.GetByID(ctx, admin, 4)
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	repo := &mockResourceRepo{}
	svc := NewService(repo, access.NewPolicy(), nopLogger{})

	lab := domain.ResourceLab
	repo.On("List", ctx, domain.ResourceFilter{Type: &lab, ActiveOnly: true, Limit: 10, Offset: 10}).
		Return([]*domain.Resource{{ID: 1, Type: domain.ResourceLab}}, nil)

	resp, err := svc.List(ctx, user, &models.ListResourcesRequest{Type: ptr.Ptr("lab"), IncludeInactive: true, Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, resp.Resources, 1)

	_, err = svc.List(ctx, user, &models.ListResourcesRequest{Type: ptr.Ptr("spaceship")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	repo := &mockResourceRepo{}
	svc := NewService(repo, access.NewPolicy(), nopLogger{})

	existing := validRequest().ToDomainResource()
	existing.ID = 8
	repo.On("GetByID", ctx, int64(8)).Return(existing, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(r *domain.Resource) bool {
		return r.RequiresApproval && r.Capacity == 45
	})).Return(existing, nil)

	resp, err := svc.Update(ctx, admin, 8, &models.UpdateResourceRequest{RequiresApproval: ptr.Ptr(true), Capacity: ptr.Ptr(45)})
	require.NoError(t, err)
	assert.True(t, resp.RequiresApproval)

	_, err = svc.Update(ctx, admin, 8, &models.UpdateResourceRequest{MaxBookingHours: ptr.Ptr(48)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Deactivate(t *testing.T) {
	ctx := context.Background()
	repo := &mockResourceRepo{}
	svc := NewService(repo, access.NewPolicy(), nopLogger{})
	repo.On("Deactivate", ctx, int64(8)).Return(nil)
	repo.On("Deactivate", ctx, int64(9)).Return(resourceRepo.ErrResourceNotFound)

	assert.NoError(t, svc.Deactivate(ctx, admin, 8))
	assert.ErrorIs(t, svc.Deactivate(ctx, admin, 9), ErrResourceNotFound)
	assert.ErrorIs(t, svc.Deactivate(ctx, user, 8), ErrAccessDenied)
}
