package resources

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/campus-booking/internal/domain"
	resourceRepo "github.com/m04kA/campus-booking/internal/infra/storage/resource"
	"github.com/m04kA/campus-booking/internal/service/access"
	"github.com/m04kA/campus-booking/internal/service/resources/models"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Service сервис администрирования ресурсов
type Service struct {
	resourceRepo ResourceRepository
	policy       AccessPolicy
	logger       Logger
}

// NewService создает новый экземпляр сервиса ресурсов
func NewService(resourceRepo ResourceRepository, policy AccessPolicy, logger Logger) *Service {
	return &Service{
		resourceRepo: resourceRepo,
		policy:       policy,
		logger:       logger,
	}
}

// Create создает ресурс. Доступно только администратору.
func (s *Service) Create(ctx context.Context, actor domain.Actor, req *models.CreateResourceRequest) (*models.ResourceResponse, error) {
	s.logger.Info("Create: resource name=%q type=%s by user=%d", req.Name, req.Type, actor.ID)

	if err := s.authorize(actor); err != nil {
		return nil, err
	}

	res := req.ToDomainResource()
	if err := res.Validate(); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.resourceRepo.Create(ctx, res)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: created resource id=%d", created.ID)
	return models.FromDomainResource(created), nil
}

// GetByID возвращает ресурс. Неактивный ресурс виден только администратору.
func (s *Service) GetByID(ctx context.Context, actor domain.Actor, id int64) (*models.ResourceResponse, error) {
	res, err := s.load(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}
	if !res.IsActive && !actor.IsAdmin() {
		return nil, ErrResourceNotFound
	}
	return models.FromDomainResource(res), nil
}

// List возвращает ресурсы; неактивные только администратору по запросу
func (s *Service) List(ctx context.Context, actor domain.Actor, req *models.ListResourcesRequest) (*models.ResourceListResponse, error) {
	filter := domain.ResourceFilter{
		ActiveOnly: !(req.IncludeInactive && actor.IsAdmin()),
		Limit:      req.Limit,
	}
	if req.Type != nil {
		t := domain.ResourceType(*req.Type)
		if !t.IsValid() {
			return nil, fmt.Errorf("%w: unknown resource type %q", ErrInvalidInput, *req.Type)
		}
		filter.Type = &t
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if req.Page > 1 {
		filter.Offset = (req.Page - 1) * filter.Limit
	}

	list, err := s.resourceRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainResourceList(list), nil
}

// Update частично обновляет ресурс. Доступно только администратору.
func (s *Service) Update(ctx context.Context, actor domain.Actor, id int64, req *models.UpdateResourceRequest) (*models.ResourceResponse, error) {
	s.logger.Info("Update: resource id=%d by user=%d", id, actor.ID)

	if err := s.authorize(actor); err != nil {
		return nil, err
	}

	res, err := s.load(ctx, "Update", id)
	if err != nil {
		return nil, err
	}

	req.ApplyToResource(res)
	if err := res.Validate(); err != nil {
		s.logger.Warn("Update: validation failed for resource id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	updated, err := s.resourceRepo.Update(ctx, res)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return nil, ErrResourceNotFound
		}
		s.logger.Error("Update: repository error for resource id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainResource(updated), nil
}

// Deactivate мягко удаляет ресурс; существующие бронирования не затрагиваются
func (s *Service) Deactivate(ctx context.Context, actor domain.Actor, id int64) error {
	s.logger.Info("Deactivate: resource id=%d by user=%d", id, actor.ID)

	if err := s.authorize(actor); err != nil {
		return err
	}

	if err := s.resourceRepo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("Deactivate: resource id=%d not found", id)
			return ErrResourceNotFound
		}
		s.logger.Error("Deactivate: repository error for resource id=%d: %v", id, err)
		return fmt.Errorf("%w: Deactivate - repository error: %v", ErrInternal, err)
	}
	return nil
}

func (s *Service) load(ctx context.Context, op string, id int64) (*domain.Resource, error) {
	res, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("%s: resource id=%d not found", op, id)
			return nil, ErrResourceNotFound
		}
		s.logger.Error("%s: repository error for resource id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return res, nil
}

func (s *Service) authorize(actor domain.Actor) error {
	if err := s.policy.Authorize(actor, access.ManageResources, nil); err != nil {
		s.logger.Warn("access denied for user=%d: %v", actor.ID, err)
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	}
	return nil
}
