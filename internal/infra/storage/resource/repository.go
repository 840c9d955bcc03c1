package resource

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/campus-booking/internal/domain"
	"github.com/m04kA/campus-booking/pkg/dbmetrics"
	"github.com/m04kA/campus-booking/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"name",
	"type",
	"description",
	"location",
	"capacity",
	"timezone",
	"weekly_availability",
	"advance_booking_days",
	"min_booking_notice_hours",
	"max_concurrent_bookings",
	"requires_approval",
	"max_booking_hours",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий ресурсов; недельное расписание хранится в JSONB
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ресурсов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый ресурс
func (r *Repository) Create(ctx context.Context, res *domain.Resource) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	availability, err := json.Marshal(res.WeeklyAvailability)
	if err != nil {
		return nil, fmt.Errorf("%w: Create: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert("resources").
		Columns(
			"name",
			"type",
			"description",
			"location",
			"capacity",
			"timezone",
			"weekly_availability",
			"advance_booking_days",
			"min_booking_notice_hours",
			"max_concurrent_bookings",
			"requires_approval",
			"max_booking_hours",
			"is_active",
		).
		Values(
			res.Name,
			res.Type,
			res.Description,
			res.Location,
			res.Capacity,
			res.Timezone,
			availability,
			res.BookingRestrictions.AdvanceBookingDays,
			res.BookingRestrictions.MinBookingNoticeHours,
			res.BookingRestrictions.MaxConcurrentBookings,
			res.RequiresApproval,
			res.MaxBookingHours,
			res.IsActive,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return res, nil
}

// GetByID получает ресурс по ID (в том числе неактивный)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id}, "")
}

// GetActiveByID получает только активный ресурс
func (r *Repository) GetActiveByID(ctx context.Context, id int64) (*domain.Resource, error) {
	return r.getOne(ctx, "GetActiveByID", squirrel.Eq{"id": id, "is_active": true}, "")
}

// LockForUpdate читает активный ресурс с блокировкой строки до конца транзакции.
// Все создания бронирований одного ресурса выстраиваются в очередь на этой блокировке.
func (r *Repository) LockForUpdate(ctx context.Context, id int64) (*domain.Resource, error) {
	suffix := ""
	if dbmetrics.IsInTransaction(ctx) {
		suffix = "FOR UPDATE"
	}
	return r.getOne(ctx, "LockForUpdate", squirrel.Eq{"id": id, "is_active": true}, suffix)
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq, suffix string) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).From("resources").Where(where)
	if suffix != "" {
		builder = builder.Suffix(suffix)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	res, err := scanResource(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan resource: %w", ErrScanRow, op, err)
	}
	return res, nil
}

// List возвращает ресурсы по фильтру, отсортированные по имени
func (r *Repository) List(ctx context.Context, filter domain.ResourceFilter) ([]*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := listQuery(filter, 0).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute select: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanResources(rows)
}

// FindAlternatives возвращает активные ресурсы того же типа, кроме excludeID
func (r *Repository) FindAlternatives(ctx context.Context, resourceType domain.ResourceType, excludeID int64) ([]*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := listQuery(domain.ResourceFilter{Type: &resourceType, ActiveOnly: true}, excludeID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindAlternatives - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindAlternatives - execute select: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanResources(rows)
}

func listQuery(filter domain.ResourceFilter, excludeID int64) squirrel.SelectBuilder {
	builder := psqlbuilder.Select(columns...).From("resources").OrderBy("name ASC", "id ASC")
	if filter.Type != nil {
		builder = builder.Where(squirrel.Eq{"type": *filter.Type})
	}
	if filter.ActiveOnly {
		builder = builder.Where(squirrel.Eq{"is_active": true})
	}
	if excludeID > 0 {
		builder = builder.Where(squirrel.NotEq{"id": excludeID})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}
	return builder
}

// Update обновляет все изменяемые поля ресурса
func (r *Repository) Update(ctx context.Context, res *domain.Resource) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	availability, err := json.Marshal(res.WeeklyAvailability)
	if err != nil {
		return nil, fmt.Errorf("%w: Update: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Update("resources").
		Set("name", res.Name).
		Set("type", res.Type).
		Set("description", res.Description).
		Set("location", res.Location).
		Set("capacity", res.Capacity).
		Set("timezone", res.Timezone).
		Set("weekly_availability", availability).
		Set("advance_booking_days", res.BookingRestrictions.AdvanceBookingDays).
		Set("min_booking_notice_hours", res.BookingRestrictions.MinBookingNoticeHours).
		Set("max_concurrent_bookings", res.BookingRestrictions.MaxConcurrentBookings).
		Set("requires_approval", res.RequiresApproval).
		Set("max_booking_hours", res.MaxBookingHours).
		Set("is_active", res.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": res.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&res.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}
	return res, nil
}

// Deactivate мягко удаляет ресурс (is_active = false)
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("resources").
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Deactivate - execute update: %w", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - rows affected: %w", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrResourceNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanResource(row scanner) (*domain.Resource, error) {
	var (
		res          domain.Resource
		availability []byte
	)
	err := row.Scan(
		&res.ID,
		&res.Name,
		&res.Type,
		&res.Description,
		&res.Location,
		&res.Capacity,
		&res.Timezone,
		&availability,
		&res.BookingRestrictions.AdvanceBookingDays,
		&res.BookingRestrictions.MinBookingNoticeHours,
		&res.BookingRestrictions.MaxConcurrentBookings,
		&res.RequiresApproval,
		&res.MaxBookingHours,
		&res.IsActive,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := decodeAvailability(availability, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func decodeAvailability(data []byte, res *domain.Resource) error {
	res.WeeklyAvailability = domain.WeeklyAvailability{}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &res.WeeklyAvailability); err != nil {
		return fmt.Errorf("decode weekly_availability of resource %d: %w", res.ID, err)
	}
	return nil
}

func scanResources(rows *sql.Rows) ([]*domain.Resource, error) {
	var resources []*domain.Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan resource: %w", ErrScanRow, err)
		}
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows iteration: %w", ErrScanRow, err)
	}
	return resources, nil
}
