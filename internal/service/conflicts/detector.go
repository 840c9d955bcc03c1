package conflicts

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/m04kA/campus-booking/internal/domain"
	bookingRepo "github.com/m04kA/campus-booking/internal/infra/storage/booking"
)

// Detector ищет активные бронирования ресурса, пересекающиеся с интервалом
type Detector struct {
	bookingRepo  BookingRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewDetector создает детектор конфликтов
func NewDetector(bookingRepo BookingRepository, txManager TransactionManager, logger Logger) *Detector {
	return &Detector{
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// FindConflicts returns every pending/confirmed/active booking of the resource overlapping
// interval, ordered by start time then id. excludeID > 0 removes that booking from the result.
func (d *Detector) FindConflicts(ctx context.Context, resourceID int64, interval domain.Interval, excludeID int64) ([]*domain.Booking, error) {
	if !interval.End.After(interval.Start) {
		return nil, domain.ErrEndBeforeStart
	}

	found, err := d.bookingRepo.FindOverlapping(ctx, resourceID, interval, excludeID)
	if err != nil {
		d.logger.Error("FindConflicts: resource=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: find overlapping: %w", ErrInternal, err)
	}

	// Хранилище уже фильтрует, но результат детектора не должен зависеть от него
	result := make([]*domain.Booking, 0, len(found))
	for _, b := range found {
		if b.ID == excludeID && excludeID > 0 {
			continue
		}
		if b.ResourceID != resourceID || !b.IsActive() || !b.Interval().Overlaps(interval) {
			continue
		}
		result = append(result, b)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].StartTime.Equal(result[j].StartTime) {
			return result[i].ID < result[j].ID
		}
		return result[i].StartTime.Before(result[j].StartTime)
	})

	return result, nil
}

// HasConflicts reports whether any active booking overlaps interval
func (d *Detector) HasConflicts(ctx context.Context, resourceID int64, interval domain.Interval) (bool, error) {
	found, err := d.FindConflicts(ctx, resourceID, interval, 0)
	if err != nil {
		return false, err
	}
	return len(found) > 0, nil
}

// RefreshConflictStatus recomputes and stores the conflict snapshot of a booking.
// The snapshot reflects the moment of the call only.
func (d *Detector) RefreshConflictStatus(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	var result *domain.Booking

	err := d.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := d.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: get booking: %w", ErrInternal, err)
		}

		found, err := d.FindConflicts(txCtx, booking.ResourceID, booking.Interval(), booking.ID)
		if err != nil {
			return err
		}

		now := d.timeProvider.Now()
		booking.ConflictStatus = Snapshot(found, now)
		booking.UpdatedAt = now

		if err := d.bookingRepo.Update(txCtx, booking); err != nil {
			return fmt.Errorf("%w: update booking: %w", ErrInternal, err)
		}
		result = booking
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrBookingNotFound) {
			d.logger.Error("RefreshConflictStatus: booking id=%d: %v", bookingID, err)
		}
		return nil, err
	}

	d.logger.Info("RefreshConflictStatus: booking id=%d has %d conflicts",
		bookingID, len(result.ConflictStatus.ConflictingBookings))
	return result, nil
}
