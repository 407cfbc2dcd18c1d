package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/salonix/SLN-BookingService/internal/domain"
	"github.com/salonix/SLN-BookingService/pkg/dbmetrics"
	"github.com/salonix/SLN-BookingService/pkg/psqlbuilder"
)

// pgUniqueViolation код ошибки PostgreSQL при нарушении уникального индекса
const pgUniqueViolation = "23505"

// slotUniqueIndex имя частичного уникального индекса по (date, slot, lane)
const slotUniqueIndex = "uq_appointments_slot_lane"

var appointmentColumns = []string{
	"id",
	"user_id",
	"staff_id",
	"appointment_date",
	"time_slot",
	"duration_minutes",
	"status",
	"total_amount",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий журнала записей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create вставляет запись вместе с выбранными услугами и товарами.
// Вызывается только внутри транзакции координатора бронирования: вставка
// строки и вставка позиций должны быть атомарны. Нарушение уникального
// индекса (date, slot, lane) конвертируется в ErrSlotTaken - это штатный
// исход проигранной гонки, а не внутренняя ошибка.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"user_id",
			"staff_id",
			"appointment_date",
			"time_slot",
			"duration_minutes",
			"status",
			"total_amount",
		).
		Values(
			appt.UserID,
			appt.StaffID,
			appt.Date,
			appt.TimeSlot,
			appt.DurationMinutes,
			appt.Status,
			appt.TotalAmount,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isSlotUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	if err := r.insertServices(ctx, executor, appt.ID, appt.Services); err != nil {
		return nil, err
	}
	if err := r.insertProducts(ctx, executor, appt.ID, appt.Products); err != nil {
		return nil, err
	}

	return appt, nil
}

func (r *Repository) insertServices(ctx context.Context, executor DBExecutor, apptID int64, services []domain.ServiceSelection) error {
	if len(services) == 0 {
		return nil
	}

	builder := psqlbuilder.Insert("appointment_services").
		Columns("appointment_id", "service_id", "variant", "position")
	for i, sel := range services {
		builder = builder.Values(apptID, sel.ServiceID, sel.Variant, i)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertServices - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertServices - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

func (r *Repository) insertProducts(ctx context.Context, executor DBExecutor, apptID int64, products []int64) error {
	if len(products) == 0 {
		return nil
	}

	builder := psqlbuilder.Insert("appointment_products").
		Columns("appointment_id", "product_id", "position")
	for i, productID := range products {
		builder = builder.Values(apptID, productID, i)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertProducts - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertProducts - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

// GetByID получает запись по ID вместе с услугами и товарами
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}

	if err := r.attachItems(ctx, executor, []*domain.Appointment{appt}); err != nil {
		return nil, err
	}
	return appt, nil
}

// GetByUserID получает историю записей пользователя, новые даты первыми.
// Опционально фильтрует по статусу.
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("appointment_date DESC, created_at DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	appts, err := scanAppointments(rows)
	if err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, executor, appts); err != nil {
		return nil, err
	}
	return appts, nil
}

// ListByDay получает записи на день в рамках запрошенной линии.
// Позиции (услуги, товары) не загружаются: этот метод обслуживает расчет
// занятости слотов и проверку конфликтов, где нужны только времена и статусы.
//
// Правила линий:
//   - AnyLane = true: все записи дня (административные выборки)
//   - StaffID = nil: общая линия (staff_id IS NULL)
//   - StaffID задан: линия конкретного мастера
//
// Внутри транзакции выборка выполняется с FOR UPDATE: координатор бронирования
// блокирует строки дня перед повторной проверкой свободы слота.
func (r *Repository) ListByDay(ctx context.Context, filter domain.DayFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"appointment_date": filter.Date}).
		// Метки слотов - 12-часовой текст, их лексический порядок не хронологический
		OrderBy("created_at ASC")

	if !filter.AnyLane {
		if filter.StaffID != nil {
			selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": *filter.StaffID})
		} else {
			selectBuilder = selectBuilder.Where("staff_id IS NULL")
		}
	}

	if !filter.IncludeInactive {
		inactive := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactive[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactive})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDay - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// ListByDayWithItems получает записи на день вместе с позициями.
// Используется административной выборкой дня.
func (r *Repository) ListByDayWithItems(ctx context.Context, filter domain.DayFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	appts, err := r.ListByDay(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, executor, appts); err != nil {
		return nil, err
	}
	return appts, nil
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// Cancel переводит запись в cancelled с причиной и временем отмены.
// Проверка допустимости отмены выполняется на уровне сервиса; здесь запись
// дополнительно защищена условием по отменяемым статусам, чтобы конкурирующая
// отмена не перезаписала уже финальный статус.
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	cancellable := []string{string(domain.StatusPending), string(domain.StatusConfirmed)}

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": cancellable}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// attachItems догружает услуги и товары для набора записей
func (r *Repository) attachItems(ctx context.Context, executor DBExecutor, appts []*domain.Appointment) error {
	if len(appts) == 0 {
		return nil
	}

	ids := make([]int64, len(appts))
	byID := make(map[int64]*domain.Appointment, len(appts))
	for i, a := range appts {
		ids[i] = a.ID
		byID[a.ID] = a
	}

	query, args, err := psqlbuilder.Select("appointment_id", "service_id", "variant").
		From("appointment_services").
		Where(squirrel.Eq{"appointment_id": ids}).
		OrderBy("appointment_id ASC, position ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: attachItems - build services query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachItems - execute services query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var apptID, serviceID int64
		var variant domain.Variant
		if err := rows.Scan(&apptID, &serviceID, &variant); err != nil {
			return fmt.Errorf("%w: attachItems - scan service row: %v", ErrScanRow, err)
		}
		if a := byID[apptID]; a != nil {
			a.Services = append(a.Services, domain.ServiceSelection{ServiceID: serviceID, Variant: variant})
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachItems - services rows error: %v", ErrScanRow, err)
	}

	query, args, err = psqlbuilder.Select("appointment_id", "product_id").
		From("appointment_products").
		Where(squirrel.Eq{"appointment_id": ids}).
		OrderBy("appointment_id ASC, position ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: attachItems - build products query: %v", ErrBuildQuery, err)
	}

	productRows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachItems - execute products query: %v", ErrExecQuery, err)
	}
	defer productRows.Close()

	for productRows.Next() {
		var apptID, productID int64
		if err := productRows.Scan(&apptID, &productID); err != nil {
			return fmt.Errorf("%w: attachItems - scan product row: %v", ErrScanRow, err)
		}
		if a := byID[apptID]; a != nil {
			a.Products = append(a.Products, productID)
		}
	}
	if err := productRows.Err(); err != nil {
		return fmt.Errorf("%w: attachItems - products rows error: %v", ErrScanRow, err)
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appt.ID,
		&appt.UserID,
		&appt.StaffID,
		&appt.Date,
		&appt.TimeSlot,
		&appt.DurationMinutes,
		&appt.Status,
		&appt.TotalAmount,
		&appt.CancellationReason,
		&appt.CancelledAt,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan appointment: %v", ErrScanRow, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time
	return &appt, nil
}

func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appts := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}
	return appts, nil
}

// isSlotUniqueViolation распознает проигранную гонку за слот
func isSlotUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return string(pqErr.Code) == pgUniqueViolation && pqErr.Constraint == slotUniqueIndex
}
