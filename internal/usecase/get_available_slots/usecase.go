package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/campus-booking/internal/domain"
	resourceRepo "github.com/m04kA/campus-booking/internal/infra/storage/resource"
)

// UseCase use case для получения свободных слотов ресурса на дату
type UseCase struct {
	bookingRepo  BookingRepository
	resourceRepo ResourceRepository
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// location используется для ресурсов без собственной таймзоны.
func NewUseCase(
	bookingRepo BookingRepository,
	resourceRepo ResourceRepository,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		resourceRepo: resourceRepo,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: resource=%d, date=%s, duration=%d",
		req.ResourceID, req.Date.Format(domain.DateFormat), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем ресурс
	resource, err := uc.resourceRepo.GetActiveByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("GetAvailableSlots: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}

	// 3. Переводим дату и текущее время в таймзону ресурса
	loc := resource.TimeLocation(uc.location)
	y, m, d := req.Date.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, loc)
	now := uc.timeProvider.Now().In(loc)

	response := &Response{
		ResourceID:      resource.ID,
		Date:            date.Format(domain.DateFormat),
		DurationMinutes: req.DurationMinutes,
		Slots:           []Slot{},
	}

	// 4. Валидация даты с учетом ограничений ресурса
	if err := validateDate(date, now, resource.BookingRestrictions.EffectiveAdvanceBookingDays()); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 5. Окна на этот день недели
	day, ok := resource.WeeklyAvailability[domain.WeekdayOf(date.Weekday())]
	if !ok || !day.Enabled {
		uc.logger.Info("GetAvailableSlots: resource=%d is closed on %s", resource.ID, response.Date)
		return response, nil
	}

	// 6. Генерируем слоты
	slots := generateSlots(day, date, loc, req.DurationMinutes, now,
		resource.BookingRestrictions.EffectiveMinBookingNoticeHours())
	if len(slots) == 0 {
		return response, nil
	}

	// 7. Получаем активные бронирования ресурса на эту дату
	from, to := date, date.AddDate(0, 0, 1)
	bookings, err := uc.bookingRepo.List(ctx, domain.BookingsFilter{
		ResourceID: &resource.ID,
		Statuses:   domain.ActiveStatuses,
		From:       &from,
		To:         &to,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 8. Убираем занятые слоты
	response.Slots = fromDomainSlots(dropBooked(slots, bookings))

	uc.logger.Info("GetAvailableSlots: %d free slots for resource=%d on %s",
		len(response.Slots), resource.ID, response.Date)

	return response, nil
}
