package suggest_alternatives

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/campus-booking/internal/domain"
	resourceRepo "github.com/m04kA/campus-booking/internal/infra/storage/resource"
)

// UseCase подбирает замены для конфликтующего запроса. Только чтение.
type UseCase struct {
	resourceRepo ResourceRepository
	detector     ConflictDetector
	location     *time.Location
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// location используется для ресурсов без собственной таймзоны.
func NewUseCase(resourceRepo ResourceRepository, detector ConflictDetector, location *time.Location, logger Logger) *UseCase {
	return &UseCase{
		resourceRepo: resourceRepo,
		detector:     detector,
		location:     location,
		logger:       logger,
	}
}

// Execute загружает ресурс и подбирает альтернативы для интервала
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.ResourceID <= 0 {
		return nil, fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}
	interval, err := domain.NewInterval(req.Start, req.End)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	resource, err := uc.resourceRepo.GetActiveByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("SuggestAlternatives: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}

	alternatives, err := uc.Suggest(ctx, resource, interval)
	if err != nil {
		return nil, err
	}
	return FromDomain(alternatives), nil
}

// Suggest runs both strategies for an already loaded resource
func (uc *UseCase) Suggest(ctx context.Context, resource *domain.Resource, interval domain.Interval) (domain.Alternatives, error) {
	resources, err := uc.AlternativeResources(ctx, resource, interval)
	if err != nil {
		return domain.Alternatives{}, err
	}
	slots, err := uc.AlternativeSlots(ctx, resource, interval)
	if err != nil {
		return domain.Alternatives{}, err
	}

	uc.logger.Info("SuggestAlternatives: resource=%d, %d resources, %d slots",
		resource.ID, len(resources), len(slots))
	return domain.Alternatives{Resources: resources, Slots: slots}, nil
}

// AlternativeResources returns up to MaxAlternativeResource active resources of the same type
// whose weekly schedule contains the requested day and time window
func (uc *UseCase) AlternativeResources(ctx context.Context, resource *domain.Resource, interval domain.Interval) ([]*domain.Resource, error) {
	candidates, err := uc.resourceRepo.FindAlternatives(ctx, resource.Type, resource.ID)
	if err != nil {
		uc.logger.Error("SuggestAlternatives: failed to list resources of type %s: %v", resource.Type, err)
		return nil, fmt.Errorf("%w: failed to list alternative resources: %v", ErrInternal, err)
	}

	result := make([]*domain.Resource, 0, domain.MaxAlternativeResource)
	for _, candidate := range candidates {
		if candidate.ID == resource.ID || !candidate.IsActive {
			continue
		}
		if !candidate.AcceptsInterval(interval, uc.location) {
			continue
		}
		result = append(result, candidate)
		if len(result) == domain.MaxAlternativeResource {
			break
		}
	}
	return result, nil
}

// AlternativeSlots shifts the interval forward by 1..MaxAlternativeDayShift whole days on the
// same resource and keeps up to MaxAlternativeSlots shifts without conflicts
func (uc *UseCase) AlternativeSlots(ctx context.Context, resource *domain.Resource, interval domain.Interval) ([]domain.Interval, error) {
	loc := resource.TimeLocation(uc.location)

	slots := make([]domain.Interval, 0, domain.MaxAlternativeSlots)
	for days := 1; days <= domain.MaxAlternativeDayShift && len(slots) < domain.MaxAlternativeSlots; days++ {
		shifted := interval.ShiftDays(days, loc)

		found, err := uc.detector.FindConflicts(ctx, resource.ID, shifted, 0)
		if err != nil {
			uc.logger.Error("SuggestAlternatives: conflict check for resource=%d failed: %v", resource.ID, err)
			return nil, fmt.Errorf("%w: failed to check shifted slot: %v", ErrInternal, err)
		}
		if len(found) == 0 {
			slots = append(slots, shifted)
		}
	}
	return slots, nil
}
