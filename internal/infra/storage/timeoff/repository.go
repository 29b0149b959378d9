package timeoff

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

const table = "time_off"

var columns = []string{
	"id",
	"business_id",
	"staff_id",
	"start_at",
	"end_at",
	"reason",
	"created_by",
	"created_at",
}

// Repository репозиторий окон отсутствия (отпуска, праздники, перерывы)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория окон отсутствия
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет окно отсутствия
func (r *Repository) Create(ctx context.Context, timeOff *domain.TimeOff) (*domain.TimeOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("business_id", "staff_id", "start_at", "end_at", "reason", "created_by").
		Values(timeOff.BusinessID, timeOff.StaffID, timeOff.StartAt, timeOff.EndAt, timeOff.Reason, timeOff.CreatedBy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&timeOff.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}
	timeOff.CreatedAt = createdAt.Time

	return timeOff, nil
}

// GetByID получает окно отсутствия бизнеса по ID
func (r *Repository) GetByID(ctx context.Context, businessID, id int64) (*domain.TimeOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id, "business_id": businessID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	timeOff, err := scanTimeOff(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTimeOffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan row: %v", ErrScanRow, err)
	}

	return timeOff, nil
}

// ListOverlapping окна, пересекающие период [From, To).
// Без AllStaff и StaffID возвращаются только окна всего бизнеса.
func (r *Repository) ListOverlapping(ctx context.Context, filter domain.TimeOffFilter) ([]*domain.TimeOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"business_id": filter.BusinessID}).
		Where(squirrel.Lt{"start_at": filter.To}).
		Where(squirrel.Gt{"end_at": filter.From}).
		OrderBy("start_at ASC")

	switch {
	case filter.AllStaff:
	case filter.StaffID != nil:
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.Eq{"staff_id": nil},
			squirrel.Eq{"staff_id": *filter.StaffID},
		})
	default:
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": nil})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.TimeOff, 0)
	for rows.Next() {
		timeOff, err := scanTimeOff(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListOverlapping - scan row: %v", ErrScanRow, err)
		}
		result = append(result, timeOff)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// Delete удаляет окно отсутствия бизнеса
func (r *Repository) Delete(ctx context.Context, businessID, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id, "business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrTimeOffNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTimeOff(row rowScanner) (*domain.TimeOff, error) {
	var timeOff domain.TimeOff
	var createdAt sql.NullTime

	err := row.Scan(
		&timeOff.ID,
		&timeOff.BusinessID,
		&timeOff.StaffID,
		&timeOff.StartAt,
		&timeOff.EndAt,
		&timeOff.Reason,
		&timeOff.CreatedBy,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	timeOff.CreatedAt = createdAt.Time
	return &timeOff, nil
}
