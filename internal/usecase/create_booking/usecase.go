package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/campus-booking/internal/domain"
	bookingRepo "github.com/m04kA/campus-booking/internal/infra/storage/booking"
	resourceRepo "github.com/m04kA/campus-booking/internal/infra/storage/resource"
	"github.com/m04kA/campus-booking/internal/service/bookings/models"
	"github.com/m04kA/campus-booking/internal/service/conflicts"
)

// UseCase use case для создания бронирования (оценка заявки и сохранение)
type UseCase struct {
	bookingRepo  BookingRepository
	resourceRepo ResourceRepository
	detector     ConflictDetector
	suggester    AlternativeSuggester
	txManager    TransactionManager
	metrics      Metrics
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// location используется для ресурсов без собственной таймзоны.
func NewUseCase(
	bookingRepo BookingRepository,
	resourceRepo ResourceRepository,
	detector ConflictDetector,
	suggester AlternativeSuggester,
	txManager TransactionManager,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		resourceRepo: resourceRepo,
		detector:     detector,
		suggester:    suggester,
		txManager:    txManager,
		metrics:      metrics,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute оценивает заявку и при успехе создаёт бронирование в статусе pending или confirmed.
//
// Проверка конфликтов и вставка выполняются в сериализуемой транзакции, первым запросом которой
// блокируется строка ресурса (FOR UPDATE): заявки на один ресурс обрабатываются по очереди.
// При конфликте возвращается *ConflictError с пересечениями и альтернативами.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.BookingResponse, error) {
	uc.logger.Info("CreateBooking: user=%d, resource=%d, interval=%s - %s",
		req.UserID, req.ResourceID, req.Start.Format(time.RFC3339), req.End.Format(time.RFC3339))

	result, err := uc.execute(ctx, req)
	uc.metrics.IncBookingDecision(string(OutcomeOf(err)))
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: created booking id=%d with status=%s", result.ID, result.Status)
	return models.FromDomainBooking(result), nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()
	interval := domain.Interval{Start: req.Start, End: req.End}

	var (
		result   *domain.Booking
		resource *domain.Resource
	)

	// 3. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Блокируем ресурс: дальнейшая проверка и вставка атомарны для этого ресурса
		res, err := uc.resourceRepo.LockForUpdate(txCtx, req.ResourceID)
		if err != nil {
			if errors.Is(err, resourceRepo.ErrResourceNotFound) {
				uc.logger.Warn("CreateBooking: resource id=%d not found", req.ResourceID)
				return ErrResourceNotFound
			}
			uc.logger.Error("CreateBooking: failed to lock resource id=%d: %v", req.ResourceID, err)
			return fmt.Errorf("%w: failed to lock resource: %w", ErrInternal, err)
		}
		resource = res

		// 3.2. Правила политики 1-5
		if err := Evaluate(res, interval, now, uc.location); err != nil {
			uc.logger.Warn("CreateBooking: resource=%d rejected: %v", res.ID, err)
			return err
		}

		// 3.3. Поиск пересечений
		found, err := uc.detector.FindConflicts(txCtx, res.ID, interval, 0)
		if err != nil {
			return fmt.Errorf("%w: failed to find conflicts: %w", ErrInternal, err)
		}
		if len(found) > 0 {
			uc.logger.Warn("CreateBooking: resource=%d has %d conflicting booking(s)", res.ID, len(found))
			return &ConflictError{Conflicts: found}
		}

		// 3.4. Создаём бронирование; начальный статус зависит от requiresApproval
		booking := &domain.Booking{
			UserID:         req.UserID,
			ResourceID:     res.ID,
			Title:          req.Title,
			Description:    req.Description,
			StartTime:      req.Start,
			EndTime:        req.End,
			Status:         res.InitialStatus(),
			Priority:       resolvePriority(req.Priority),
			Recurrence:     req.Recurrence,
			ConflictStatus: conflicts.Snapshot(nil, now),
			Metadata: domain.Metadata{
				Source:    resolveSource(req.Metadata.Source),
				IPAddress: req.Metadata.IPAddress,
				UserAgent: req.Metadata.UserAgent,
				RequestID: req.Metadata.RequestID,
			},
			Notes: req.Notes,
		}

		// 3.5. Длительность пересчитывается перед каждым сохранением
		if err := booking.Normalize(); err != nil {
			uc.logger.Warn("CreateBooking: resource=%d rejected: %v", res.ID, err)
			return err
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrOverlap) {
				uc.logger.Warn("CreateBooking: resource=%d overlap rejected by store", res.ID)
				return &ConflictError{}
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	// 4. При конфликте подбираем альтернативы уже вне транзакции
	var conflictErr *ConflictError
	if errors.As(err, &conflictErr) && resource != nil {
		// Пересечение поймано ограничением БД: перечитываем конфликтующие бронирования
		if len(conflictErr.Conflicts) == 0 {
			found, findErr := uc.detector.FindConflicts(ctx, resource.ID, interval, 0)
			if findErr != nil {
				uc.logger.Warn("CreateBooking: failed to re-read conflicts for resource=%d: %v", resource.ID, findErr)
			}
			conflictErr.Conflicts = found
		}

		alternatives, altErr := uc.suggester.Suggest(ctx, resource, interval)
		if altErr != nil {
			uc.logger.Warn("CreateBooking: alternatives unavailable for resource=%d: %v", resource.ID, altErr)
		} else {
			conflictErr.Alternatives = alternatives
		}
		return nil, conflictErr
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}
