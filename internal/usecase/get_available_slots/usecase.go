package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/salonix/SLN-BookingService/internal/domain"
	"github.com/salonix/SLN-BookingService/pkg/types"
)

// UseCase use case для получения доступных слотов для записи
type UseCase struct {
	grid            *domain.Grid
	appointmentRepo AppointmentRepository
	blockedSlotRepo BlockedSlotRepository
	catalogRepo     CatalogRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	grid *domain.Grid,
	appointmentRepo AppointmentRepository,
	blockedSlotRepo BlockedSlotRepository,
	catalogRepo CatalogRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		grid:            grid,
		appointmentRepo: appointmentRepo,
		blockedSlotRepo: blockedSlotRepo,
		catalogRepo:     catalogRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: user=%d, date=%s, staff=%v, services=%v",
		req.UserID, req.Date.Format(domain.DateFormat), req.StaffID, req.ServiceIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время и проверяем дату
	now := uc.timeProvider.Now()
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 3. Вычисляем суммарную длительность выбранных услуг
	totalDuration, err := uc.totalServiceDuration(ctx, req.ServiceIDs)
	if err != nil {
		return nil, err
	}

	slotsNeeded := domain.SlotsNeeded(totalDuration, uc.grid.SlotMinutes())

	// Набор услуг длиннее рабочего дня не помещается ни в один слот
	if slotsNeeded > uc.grid.Len() {
		uc.logger.Info("GetAvailableSlots: duration %d minutes exceeds the working day", totalDuration)
		return &Response{
			Date:        req.Date,
			StaffID:     req.StaffID,
			SlotsNeeded: slotsNeeded,
			Slots:       []types.TimeString{},
		}, nil
	}

	// 4. Получаем записи линии на эту дату
	filter := domain.DayFilter{
		Date:    req.Date,
		StaffID: req.StaffID,
	}

	appointments, err := uc.listAppointmentsWithRetry(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 5. Получаем административные блоки на эту дату
	blocks, err := uc.listBlockedSlotsWithRetry(ctx, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get blocked slots: %v", err)
		return nil, fmt.Errorf("%w: failed to get blocked slots: %v", ErrInternal, err)
	}

	// 6. Собираем карту занятости линии
	occupied := collectOccupiedOrdinals(uc.grid, appointments)
	if allDayBlocked := applyBlockedSlots(uc.grid, occupied, blocks, req.StaffID); allDayBlocked {
		uc.logger.Info("GetAvailableSlots: day %s is fully blocked", req.Date.Format(domain.DateFormat))
		return &Response{
			Date:        req.Date,
			StaffID:     req.StaffID,
			SlotsNeeded: slotsNeeded,
			Slots:       []types.TimeString{},
		}, nil
	}

	// 7. Ищем стартовые слоты с непрерывной свободной цепочкой
	minOrdinal := firstFutureOrdinal(uc.grid, req.Date, now)
	slots := findAvailableStarts(uc.grid, occupied, slotsNeeded, minOrdinal)

	uc.logger.Info("GetAvailableSlots: %d available starts for date=%s, staff=%v, slotsNeeded=%d",
		len(slots), req.Date.Format(domain.DateFormat), req.StaffID, slotsNeeded)

	return &Response{
		Date:        req.Date,
		StaffID:     req.StaffID,
		SlotsNeeded: slotsNeeded,
		Slots:       slots,
	}, nil
}

// totalServiceDuration возвращает суммарную длительность выбранных услуг.
// Пустой выбор занимает один слот (запись только с товарами).
func (uc *UseCase) totalServiceDuration(ctx context.Context, serviceIDs []int64) (int, error) {
	if len(serviceIDs) == 0 {
		return domain.DefaultServiceDuration, nil
	}

	services, err := uc.catalogRepo.GetActiveServicesByIDs(ctx, serviceIDs)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get services: %v", err)
		return 0, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}

	byID := make(map[int64]*domain.Service, len(services))
	for _, svc := range services {
		byID[svc.ID] = svc
	}

	total := 0
	for _, id := range serviceIDs {
		svc, ok := byID[id]
		if !ok {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found or inactive", id)
			return 0, fmt.Errorf("%w: id=%d", ErrServiceNotFound, id)
		}

		if svc.DurationMinutes > 0 {
			total += svc.DurationMinutes
		} else {
			total += domain.DefaultServiceDuration
		}
	}

	return total, nil
}

// listAppointmentsWithRetry повторяет чтение один раз при сбое хранилища:
// доступность - read-only путь, и разовый transient-сбой не должен
// превращаться в пустую сетку для клиента
func (uc *UseCase) listAppointmentsWithRetry(ctx context.Context, filter domain.DayFilter) ([]*domain.Appointment, error) {
	appointments, err := uc.appointmentRepo.ListByDay(ctx, filter)
	if err == nil {
		return appointments, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	uc.logger.Warn("GetAvailableSlots: retrying appointments read after error: %v", err)
	return uc.appointmentRepo.ListByDay(ctx, filter)
}

func (uc *UseCase) listBlockedSlotsWithRetry(ctx context.Context, date time.Time) ([]*domain.BlockedSlot, error) {
	blocks, err := uc.blockedSlotRepo.ListByDate(ctx, date)
	if err == nil {
		return blocks, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	uc.logger.Warn("GetAvailableSlots: retrying blocked slots read after error: %v", err)
	return uc.blockedSlotRepo.ListByDate(ctx, date)
}
