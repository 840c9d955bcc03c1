package check_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/campus-booking/internal/domain"
	resourceRepo "github.com/m04kA/campus-booking/internal/infra/storage/resource"
	"github.com/m04kA/campus-booking/internal/service/bookings/models"
	"github.com/m04kA/campus-booking/internal/usecase/suggest_alternatives"
)

// UseCase проверяет, можно ли забронировать ресурс на дату и время. Только чтение.
type UseCase struct {
	resourceRepo ResourceRepository
	detector     ConflictDetector
	suggester    AlternativeSuggester
	location     *time.Location
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	resourceRepo ResourceRepository,
	detector ConflictDetector,
	suggester AlternativeSuggester,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		resourceRepo: resourceRepo,
		detector:     detector,
		suggester:    suggester,
		location:     location,
		logger:       logger,
	}
}

// Execute сначала проверяет недельное расписание; поиск конфликтов выполняется только
// для слота внутри окна, альтернативы подбираются только при конфликте
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckAvailability: validation failed: %v", err)
		return nil, err
	}

	resource, err := uc.resourceRepo.GetActiveByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("CheckAvailability: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("CheckAvailability: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}

	loc := resource.TimeLocation(uc.location)
	day := domain.WeekdayOf(time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, loc).Weekday())

	response := &Response{Conflicts: []models.BookingResponse{}}

	response.WithinAvailability = resource.IsWithinAvailability(day, req.StartTime, req.EndTime)
	if !response.WithinAvailability {
		uc.logger.Info("CheckAvailability: resource=%d closed on %s %s-%s", resource.ID, day, req.StartTime, req.EndTime)
		return response, nil
	}

	interval := domain.Interval{
		Start: req.StartTime.OnDate(req.Date, loc),
		End:   req.EndTime.OnDate(req.Date, loc),
	}

	found, err := uc.detector.FindConflicts(ctx, resource.ID, interval, 0)
	if err != nil {
		uc.logger.Error("CheckAvailability: conflict check for resource=%d failed: %v", resource.ID, err)
		return nil, fmt.Errorf("%w: failed to find conflicts: %v", ErrInternal, err)
	}

	response.HasConflicts = len(found) > 0
	response.Available = !response.HasConflicts
	if !response.HasConflicts {
		return response, nil
	}

	response.Conflicts = models.FromDomainBookingList(found).Bookings

	alternatives, err := uc.suggester.Suggest(ctx, resource, interval)
	if err != nil {
		uc.logger.Warn("CheckAvailability: alternatives unavailable for resource=%d: %v", resource.ID, err)
		return response, nil
	}
	response.Alternatives = suggest_alternatives.FromDomain(alternatives)

	return response, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}
	if err := req.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: endTime: %v", ErrInvalidInput, err)
	}
	if !req.StartTime.IsBefore(req.EndTime) {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}
	return nil
}
