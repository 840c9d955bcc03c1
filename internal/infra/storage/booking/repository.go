package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/campus-booking/internal/domain"
	"github.com/m04kA/campus-booking/pkg/dbmetrics"
	"github.com/m04kA/campus-booking/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"user_id",
	"resource_id",
	"title",
	"description",
	"start_time",
	"end_time",
	"duration_minutes",
	"status",
	"priority",
	"recurrence",
	"conflict_status",
	"verification",
	"metadata",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Если в контексте передана активная транзакция, использует её.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	cols, err := encodeJSONColumns(booking)
	if err != nil {
		return nil, fmt.Errorf("%w: Create: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"user_id",
			"resource_id",
			"title",
			"description",
			"start_time",
			"end_time",
			"duration_minutes",
			"status",
			"priority",
			"recurrence",
			"conflict_status",
			"verification",
			"metadata",
			"notes",
		).
		Values(
			booking.UserID,
			booking.ResourceID,
			booking.Title,
			booking.Description,
			booking.StartTime,
			booking.EndTime,
			booking.DurationMinutes,
			booking.Status,
			booking.Priority,
			cols.recurrence,
			cols.conflictStatus,
			cols.verification,
			cols.metadata,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if isOverlapViolation(err) {
		return nil, fmt.Errorf("%w: %w", ErrOverlap, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID.
// Внутри транзакции строка блокируется (FOR UPDATE) до её завершения.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// FindOverlapping возвращает активные бронирования ресурса, пересекающиеся с интервалом
// (start < interval.End AND end > interval.Start), в порядке начала.
// excludeID > 0 исключает бронирование из выборки.
func (r *Repository) FindOverlapping(ctx context.Context, resourceID int64, interval domain.Interval, excludeID int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := overlapQuery(resourceID, interval, excludeID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

func overlapQuery(resourceID int64, interval domain.Interval, excludeID int64) squirrel.SelectBuilder {
	builder := psqlbuilder.Select(columns...).
		From("bookings").
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.Expr("status = ANY(?)", pq.Array(statusStrings(domain.ActiveStatuses)))).
		Where(squirrel.Lt{"start_time": interval.End}).
		Where(squirrel.Gt{"end_time": interval.Start}).
		OrderBy("start_time ASC", "id ASC")
	if excludeID > 0 {
		builder = builder.Where(squirrel.NotEq{"id": excludeID})
	}
	return builder
}

// List возвращает бронирования по фильтру, новые сверху
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := listQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

func listQuery(filter domain.BookingsFilter) squirrel.SelectBuilder {
	builder := psqlbuilder.Select(columns...).From("bookings")

	if filter.UserID != nil {
		builder = builder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.ResourceID != nil {
		builder = builder.Where(squirrel.Eq{"resource_id": *filter.ResourceID})
	}
	if len(filter.Statuses) > 0 {
		builder = builder.Where(squirrel.Expr("status = ANY(?)", pq.Array(statusStrings(filter.Statuses))))
	}
	if filter.From != nil {
		builder = builder.Where(squirrel.Gt{"end_time": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(squirrel.Lt{"start_time": *filter.To})
	}

	builder = builder.OrderBy("start_time DESC", "id DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}
	return builder
}

// Update сохраняет изменяемые поля жизненного цикла бронирования
func (r *Repository) Update(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	cols, err := encodeJSONColumns(booking)
	if err != nil {
		return fmt.Errorf("%w: Update: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", booking.Status).
		Set("duration_minutes", booking.DurationMinutes).
		Set("conflict_status", cols.conflictStatus).
		Set("verification", cols.verification).
		Set("notes", booking.Notes).
		Set("cancellation_reason", booking.CancellationReason).
		Set("cancelled_at", booking.CancelledAt).
		Set("updated_at", booking.UpdatedAt).
		Where(squirrel.Eq{"id": booking.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

type jsonColumns struct {
	recurrence     []byte
	conflictStatus []byte
	verification   []byte
	metadata       []byte
}

func encodeJSONColumns(b *domain.Booking) (jsonColumns, error) {
	var (
		cols jsonColumns
		err  error
	)
	if b.Recurrence != nil {
		if cols.recurrence, err = json.Marshal(b.Recurrence); err != nil {
			return cols, err
		}
	}
	if cols.conflictStatus, err = json.Marshal(b.ConflictStatus); err != nil {
		return cols, err
	}
	if cols.verification, err = json.Marshal(b.Verification); err != nil {
		return cols, err
	}
	if cols.metadata, err = json.Marshal(b.Metadata); err != nil {
		return cols, err
	}
	return cols, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row scanner) (*domain.Booking, error) {
	var booking domain.Booking
	var recurrence, conflicts, verification, metadata []byte

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ResourceID,
		&booking.Title,
		&booking.Description,
		&booking.StartTime,
		&booking.EndTime,
		&booking.DurationMinutes,
		&booking.Status,
		&booking.Priority,
		&recurrence,
		&conflicts,
		&verification,
		&metadata,
		&booking.Notes,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(recurrence) > 0 {
		booking.Recurrence = &domain.Recurrence{}
		if err := json.Unmarshal(recurrence, booking.Recurrence); err != nil {
			return nil, fmt.Errorf("decode recurrence: %w", err)
		}
	}
	if err := unmarshalOptional(conflicts, &booking.ConflictStatus); err != nil {
		return nil, fmt.Errorf("decode conflict_status: %w", err)
	}
	if err := unmarshalOptional(verification, &booking.Verification); err != nil {
		return nil, fmt.Errorf("decode verification: %w", err)
	}
	if err := unmarshalOptional(metadata, &booking.Metadata); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}

	return &booking, nil
}

func unmarshalOptional(data []byte, v interface{}) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan booking: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
