package blockedslot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/salonix/SLN-BookingService/internal/domain"
	"github.com/salonix/SLN-BookingService/pkg/dbmetrics"
	"github.com/salonix/SLN-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий административных блоков слотов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория блоков
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает блок слота (или всего дня)
func (r *Repository) Create(ctx context.Context, block *domain.BlockedSlot) (*domain.BlockedSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blocked_slots").
		Columns("block_date", "time_slot", "staff_id", "reason").
		Values(block.Date, block.TimeSlot, block.StaffID, block.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&block.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	block.CreatedAt = createdAt.Time

	return block, nil
}

// Delete удаляет блок по ID
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blocked_slots").
		Where(squirrel.Eq{"id": id}).
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
		return ErrBlockNotFound
	}
	return nil
}

// ListByDate возвращает все блоки дня.
// Фильтрация по линии выполняется на уровне домена (BlockedSlot.AppliesToLane):
// блоков на день единицы, тащить логику линий в SQL здесь незачем.
func (r *Repository) ListByDate(ctx context.Context, date time.Time) ([]*domain.BlockedSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"block_date",
		"time_slot",
		"staff_id",
		"reason",
		"created_at",
	).
		From("blocked_slots").
		Where(squirrel.Eq{"block_date": date}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blocks := make([]*domain.BlockedSlot, 0)
	for rows.Next() {
		var b domain.BlockedSlot
		var createdAt sql.NullTime
		if err := rows.Scan(&b.ID, &b.Date, &b.TimeSlot, &b.StaffID, &b.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListByDate - scan block: %v", ErrScanRow, err)
		}
		b.CreatedAt = createdAt.Time
		blocks = append(blocks, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByDate - rows error: %v", ErrScanRow, err)
	}

	return blocks, nil
}

// ExistsForSlot проверяет, закрыт ли слот блоком для указанной линии.
// Учитывает блок конкретного слота и блок всего дня; глобальные блоки
// (staff_id IS NULL) действуют на любую линию, блоки мастера - только на его.
func (r *Repository) ExistsForSlot(ctx context.Context, date time.Time, slot string, staffID *int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	laneCond := squirrel.Or{squirrel.Expr("staff_id IS NULL")}
	if staffID != nil {
		laneCond = append(laneCond, squirrel.Eq{"staff_id": *staffID})
	}

	query, args, err := psqlbuilder.Select("1").
		From("blocked_slots").
		Where(squirrel.Eq{"block_date": date}).
		Where(squirrel.Or{
			squirrel.Eq{"time_slot": slot},
			squirrel.Eq{"time_slot": domain.AllDaySlot},
		}).
		Where(laneCond).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: ExistsForSlot - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ExistsForSlot - execute query: %v", ErrExecQuery, err)
	}
	return true, nil
}
