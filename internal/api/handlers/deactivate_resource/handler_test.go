package deactivate_resource

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/campus-booking/internal/api/middleware"
	"github.com/m04kA/campus-booking/internal/domain"
	"github.com/m04kA/campus-booking/internal/service/resources"
)

type stubService struct {
	calledWith int64
	err        error
}

func (s *stubService) Deactivate(_ context.Context, _ domain.Actor, id int64) error {
	s.calledWith = id
	return s.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestHandle(t *testing.T) {
	admin := domain.Actor{ID: 1, Role: domain.RoleAdmin}

	tests := []struct {
		name       string
		resourceID string
		actor      *domain.Actor
		serviceErr error
		wantStatus int
		wantCalled int64
	}{
		{"deactivated", "9", &admin, nil, http.StatusNoContent, 9},
		{"not admin", "9", &domain.Actor{ID: 2, Role: domain.RoleUser}, resources.ErrAccessDenied, http.StatusForbidden, 9},
		{"not found", "9", &admin, fmt.Errorf("deactivate: %w", resources.ErrResourceNotFound), http.StatusNotFound, 9},
		{"store failure", "9", &admin, resources.ErrInternal, http.StatusInternalServerError, 9},
		{"bad id", "0", &admin, nil, http.StatusBadRequest, 0},
		{"no actor", "9", nil, nil, http.StatusUnauthorized, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{err: tt.serviceErr}
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/resources/"+tt.resourceID, nil)
			req = mux.SetURLVars(req, map[string]string{"resourceId": tt.resourceID})
			if tt.actor != nil {
				req = req.WithContext(middleware.WithActor(req.Context(), *tt.actor))
			}
			rec := httptest.NewRecorder()

			NewHandler(svc, nopLogger{}).Handle(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalled, svc.calledWith)
		})
	}
}
