package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/salonix/SLN-BookingService/internal/domain"
	"github.com/salonix/SLN-BookingService/pkg/dbmetrics"
	"github.com/salonix/SLN-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий каталога: услуги и товары.
// Каталог для ядра read-only, единственная запись - движение остатков товара.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetActiveServicesByIDs возвращает активные услуги по списку ID.
// Отсутствующие и неактивные услуги просто не попадают в результат -
// сверку со списком запроса выполняет вызывающий код.
func (r *Repository) GetActiveServicesByIDs(ctx context.Context, ids []int64) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if len(ids) == 0 {
		return []*domain.Service{}, nil
	}

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"duration_minutes",
		"price_male",
		"price_female",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("services").
		Where(squirrel.Eq{"id": ids, "is_active": true}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveServicesByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveServicesByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0, len(ids))
	for rows.Next() {
		var svc domain.Service
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(
			&svc.ID,
			&svc.Name,
			&svc.DurationMinutes,
			&svc.PriceMale,
			&svc.PriceFemale,
			&svc.IsActive,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: GetActiveServicesByIDs - scan service: %v", ErrScanRow, err)
		}
		svc.CreatedAt = createdAt.Time
		svc.UpdatedAt = updatedAt.Time
		services = append(services, &svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActiveServicesByIDs - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}

// GetActiveProductsByIDs возвращает активные товары по списку ID (без дублей)
func (r *Repository) GetActiveProductsByIDs(ctx context.Context, ids []int64) ([]*domain.Product, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if len(ids) == 0 {
		return []*domain.Product{}, nil
	}

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"price",
		"stock",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("products").
		Where(squirrel.Eq{"id": ids, "is_active": true}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveProductsByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveProductsByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	products := make([]*domain.Product, 0, len(ids))
	for rows.Next() {
		var p domain.Product
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Price,
			&p.Stock,
			&p.IsActive,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: GetActiveProductsByIDs - scan product: %v", ErrScanRow, err)
		}
		p.CreatedAt = createdAt.Time
		p.UpdatedAt = updatedAt.Time
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActiveProductsByIDs - rows error: %v", ErrScanRow, err)
	}

	return products, nil
}

// DecrementStock атомарно списывает одну единицу товара.
// Условие stock > 0 входит в сам UPDATE: проверка и списание - одна операция,
// остаток не может уйти в минус ни при каком количестве конкурентов.
// Нулевое число затронутых строк означает, что товара нет в наличии
// (или он снят с продажи) - ErrOutOfStock.
func (r *Repository) DecrementStock(ctx context.Context, productID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("products").
		Set("stock", squirrel.Expr("stock - 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": productID, "is_active": true}).
		Where(squirrel.Gt{"stock": 0}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DecrementStock - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DecrementStock - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DecrementStock - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrOutOfStock
	}
	return nil
}

// IncrementStock возвращает одну единицу товара на остаток.
// Используется при отмене записи; выполняется в той же транзакции, что и
// смена статуса. Неактивность товара возврату не мешает.
func (r *Repository) IncrementStock(ctx context.Context, productID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("products").
		Set("stock", squirrel.Expr("stock + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": productID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: IncrementStock - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: IncrementStock - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: IncrementStock - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
