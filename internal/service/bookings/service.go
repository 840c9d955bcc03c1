package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/campus-booking/internal/domain"
	bookingRepo "github.com/m04kA/campus-booking/internal/infra/storage/booking"
	"github.com/m04kA/campus-booking/internal/service/access"
	"github.com/m04kA/campus-booking/internal/service/bookings/models"
	"github.com/m04kA/campus-booking/internal/service/conflicts"
)

// Service сервис жизненного цикла бронирований
type Service struct {
	bookingRepo  BookingRepository
	detector     ConflictDetector
	policy       AccessPolicy
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	detector ConflictDetector,
	policy AccessPolicy,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		detector:     detector,
		policy:       policy,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID.
// Пользователь видит только своё бронирование, администратор любое.
func (s *Service) GetByID(ctx context.Context, actor domain.Actor, id int64) (*models.BookingResponse, error) {
	booking, err := s.load(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(actor, access.ViewBooking, booking); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", actor.ID, id)
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// List возвращает бронирования по фильтру. Пользователь, не являющийся администратором,
// получает только свои бронирования независимо от переданного userId.
func (s *Service) List(ctx context.Context, actor domain.Actor, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	if s.authorize(actor, access.ListAllBookings, nil) != nil {
		req.UserID = &actor.ID
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter for user=%d: %v", actor.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for user=%d: %v", actor.ID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d bookings for user=%d", len(bookings), actor.ID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование владельцем или администратором
func (s *Service) Cancel(ctx context.Context, actor domain.Actor, id int64, reason string) (*models.BookingResponse, error) {
	if len(reason) > domain.MaxCancelReasonLength {
		return nil, fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxCancelReasonLength)
	}
	return s.mutate(ctx, "Cancel", actor, id, access.CancelBooking, func(b *domain.Booking, now time.Time) error {
		return b.Cancel(reason, now)
	})
}

// TransitionStatus административное изменение статуса по таблице переходов
func (s *Service) TransitionStatus(ctx context.Context, actor domain.Actor, id int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	target, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(req.Notes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return s.mutate(ctx, "TransitionStatus", actor, id, access.ChangeStatus, func(b *domain.Booking, now time.Time) error {
		return b.TransitionTo(target, req.Notes, now)
	})
}

// CheckIn отмечает начало использования подтверждённого бронирования
func (s *Service) CheckIn(ctx context.Context, actor domain.Actor, id int64, notes string) (*models.BookingResponse, error) {
	if len(notes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return s.mutate(ctx, "CheckIn", actor, id, access.VerifyBooking, func(b *domain.Booking, now time.Time) error {
		return b.CheckIn(actor.ID, notes, now)
	})
}

// CheckOut завершает активное бронирование после check-in
func (s *Service) CheckOut(ctx context.Context, actor domain.Actor, id int64, notes string) (*models.BookingResponse, error) {
	if len(notes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return s.mutate(ctx, "CheckOut", actor, id, access.VerifyBooking, func(b *domain.Booking, now time.Time) error {
		return b.CheckOut(actor.ID, notes, now)
	})
}

// RefreshConflicts пересчитывает снимок конфликтов бронирования
func (s *Service) RefreshConflicts(ctx context.Context, actor domain.Actor, id int64) (*models.BookingResponse, error) {
	if err := s.authorize(actor, access.RefreshConflicts, nil); err != nil {
		s.logger.Warn("RefreshConflicts: access denied for user=%d", actor.ID)
		return nil, err
	}

	booking, err := s.detector.RefreshConflictStatus(ctx, id)
	if err != nil {
		if errors.Is(err, conflicts.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: RefreshConflicts: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// mutate загружает бронирование под блокировкой, проверяет права, применяет переход и сохраняет
func (s *Service) mutate(
	ctx context.Context,
	op string,
	actor domain.Actor,
	id int64,
	action access.Action,
	apply func(b *domain.Booking, now time.Time) error,
) (*models.BookingResponse, error) {
	s.logger.Info("%s: booking id=%d by user=%d", op, id, actor.ID)

	var (
		result *domain.Booking
		from   domain.BookingStatus
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.load(txCtx, op, id)
		if err != nil {
			return err
		}

		if err := s.authorize(actor, action, booking); err != nil {
			s.logger.Warn("%s: access denied for user=%d to booking id=%d", op, actor.ID, id)
			return err
		}

		from = booking.Status
		if err := apply(booking, s.timeProvider.Now()); err != nil {
			s.logger.Warn("%s: booking id=%d rejected: %v", op, id, err)
			return err
		}

		if err := s.bookingRepo.Update(txCtx, booking); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
			return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncStatusTransition(string(from), string(result.Status))
	s.logger.Info("%s: booking id=%d moved %s -> %s", op, id, from, result.Status)
	return models.FromDomainBooking(result), nil
}

func (s *Service) load(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

func (s *Service) authorize(actor domain.Actor, action access.Action, booking *domain.Booking) error {
	if err := s.policy.Authorize(actor, action, booking); err != nil {
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	}
	return nil
}
