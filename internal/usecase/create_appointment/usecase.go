package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/salonix/SLN-BookingService/internal/domain"
	apptRepo "github.com/salonix/SLN-BookingService/internal/infra/storage/appointment"
	catalogRepo "github.com/salonix/SLN-BookingService/internal/infra/storage/catalog"
	staffRepo "github.com/salonix/SLN-BookingService/internal/infra/storage/staff"
	"github.com/salonix/SLN-BookingService/internal/integrations/notifier"
)

const (
	notifyTimeout = 5 * time.Second

	// DefaultCommitTimeout ограничивает время сериализуемой транзакции
	// вместе с ретраями
	DefaultCommitTimeout = 10 * time.Second
)

// UseCase use case для создания записи.
// Координирует проверку слота, расчет цены и списание товаров в одной
// сериализуемой транзакции; уникальный индекс по (дата, слот, линия)
// остается последней линией защиты от гонки.
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	blockedSlotRepo BlockedSlotRepository
	staffRepo       StaffRepository
	notifierClient  NotifierClient
	txManager       TransactionManager
	grid            *domain.Grid
	commitTimeout   time.Duration
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	grid *domain.Grid,
	appointmentRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	blockedSlotRepo BlockedSlotRepository,
	staffRepo StaffRepository,
	notifierClient NotifierClient,
	txManager TransactionManager,
	commitTimeout time.Duration,
	logger Logger,
) *UseCase {
	if commitTimeout <= 0 {
		commitTimeout = DefaultCommitTimeout
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		blockedSlotRepo: blockedSlotRepo,
		staffRepo:       staffRepo,
		notifierClient:  notifierClient,
		txManager:       txManager,
		grid:            grid,
		commitTimeout:   commitTimeout,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
// Использует сериализуемую транзакцию для предотвращения гонки данных
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: user=%d, date=%s, slot=%s, staff=%v",
		req.UserID, req.Date.Format(domain.DateFormat), req.TimeSlot, req.StaffID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время и проверяем дату и слот
	now := uc.timeProvider.Now()

	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("CreateAppointment: date validation failed: %v", err)
		return nil, err
	}

	startOrdinal, err := uc.grid.IndexOf(req.TimeSlot)
	if err != nil {
		uc.logger.Warn("CreateAppointment: slot %q is not in the day grid", req.TimeSlot)
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimeSlot, req.TimeSlot)
	}

	if err := validateSlotNotInPast(req.Date, req.TimeSlot, now); err != nil {
		uc.logger.Warn("CreateAppointment: slot validation failed: %v", err)
		return nil, err
	}

	// 3. Проверяем мастера, если выбран
	if req.StaffID != nil {
		if _, err := uc.staffRepo.GetActiveByID(ctx, *req.StaffID); err != nil {
			if errors.Is(err, staffRepo.ErrStaffNotFound) {
				uc.logger.Warn("CreateAppointment: staff id=%d not found", *req.StaffID)
				return nil, ErrStaffNotFound
			}
			uc.logger.Error("CreateAppointment: failed to get staff id=%d: %v", *req.StaffID, err)
			return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
		}
	}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 4. Выполняем операции с БД в сериализуемой транзакции
	txParentCtx, cancel := context.WithTimeout(ctx, uc.commitTimeout)
	defer cancel()

	err = uc.txManager.DoSerializable(txParentCtx, func(txCtx context.Context) error {
		// 4.1. Сверяем услуги с каталогом, считаем цену и длительность
		quote, err := uc.quoteOrder(txCtx, req)
		if err != nil {
			return err
		}

		slotsNeeded := domain.SlotsNeeded(quote.DurationMinutes, uc.grid.SlotMinutes())

		// 4.2. Цепочка слотов должна целиком уместиться до закрытия
		if startOrdinal+slotsNeeded > uc.grid.Len() {
			uc.logger.Warn("CreateAppointment: %d slots from %q do not fit the working day",
				slotsNeeded, req.TimeSlot)
			return fmt.Errorf("%w: appointment does not fit the working day", ErrInvalidTimeSlot)
		}

		// 4.3. Перечитываем записи линии под блокировкой (FOR UPDATE)
		// и проверяем весь интервал
		if err := uc.checkSlotFree(txCtx, req, startOrdinal, slotsNeeded); err != nil {
			return err
		}

		// 4.4. Проверяем административные блоки на каждый слот интервала
		if err := uc.checkNotBlocked(txCtx, req, startOrdinal, slotsNeeded); err != nil {
			return err
		}

		// 4.5. Списываем товары; каждое вхождение ID - отдельная единица
		for _, productID := range req.Products {
			if err := uc.catalogRepo.DecrementStock(txCtx, productID); err != nil {
				if errors.Is(err, catalogRepo.ErrOutOfStock) {
					uc.logger.Warn("CreateAppointment: product id=%d is out of stock", productID)
					return fmt.Errorf("%w: id=%d", ErrOutOfStock, productID)
				}
				if errors.Is(err, catalogRepo.ErrProductNotFound) {
					uc.logger.Warn("CreateAppointment: product id=%d not found", productID)
					return fmt.Errorf("%w: id=%d", ErrProductNotFound, productID)
				}
				uc.logger.Error("CreateAppointment: failed to decrement stock for product id=%d: %v", productID, err)
				return fmt.Errorf("%w: failed to decrement stock: %v", ErrInternal, err)
			}
		}

		// 4.6. Создаем запись
		appt := &domain.Appointment{
			UserID:          req.UserID,
			StaffID:         req.StaffID,
			Date:            req.Date,
			TimeSlot:        req.TimeSlot,
			DurationMinutes: quote.DurationMinutes,
			Status:          domain.StatusConfirmed,
			Services:        req.Services,
			Products:        req.Products,
			TotalAmount:     quote.TotalAmount,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			if errors.Is(err, apptRepo.ErrSlotTaken) {
				uc.logger.Warn("CreateAppointment: slot %s taken by a concurrent booking", req.TimeSlot)
				return ErrSlotTaken
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d, total=%.2f",
		result.ID, result.TotalAmount)

	// 5. Уведомление после коммита, строго best-effort
	uc.notifyConfirmed(result)

	return &Response{
		ID:              result.ID,
		UserID:          result.UserID,
		StaffID:         result.StaffID,
		Date:            result.Date,
		TimeSlot:        result.TimeSlot,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		Services:        result.Services,
		Products:        result.Products,
		TotalAmount:     result.TotalAmount,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

// quoteOrder сверяет заказ с каталогом и считает серверную цену и длительность
func (uc *UseCase) quoteOrder(ctx context.Context, req *Request) (priceQuote, error) {
	var quote priceQuote

	if len(req.Services) > 0 {
		services, err := uc.catalogRepo.GetActiveServicesByIDs(ctx, serviceIDs(req.Services))
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get services: %v", err)
			return priceQuote{}, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
		}

		quote, err = quoteServices(req.Services, services)
		if err != nil {
			uc.logger.Warn("CreateAppointment: service quote failed: %v", err)
			return priceQuote{}, err
		}
	} else {
		// Запись только с товарами занимает один слот
		quote.DurationMinutes = domain.DefaultServiceDuration
	}

	if len(req.Products) > 0 {
		products, err := uc.catalogRepo.GetActiveProductsByIDs(ctx, uniqueIDs(req.Products))
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get products: %v", err)
			return priceQuote{}, fmt.Errorf("%w: failed to get products: %v", ErrInternal, err)
		}

		productsTotal, err := quoteProducts(req.Products, products)
		if err != nil {
			uc.logger.Warn("CreateAppointment: product quote failed: %v", err)
			return priceQuote{}, err
		}
		quote.TotalAmount += productsTotal
	}

	return quote, nil
}

// checkSlotFree проверяет, что весь интервал записи свободен на линии.
// Быстрый отказ до вставки; источник истины - уникальный индекс в БД.
func (uc *UseCase) checkSlotFree(ctx context.Context, req *Request, startOrdinal, slotsNeeded int) error {
	filter := domain.DayFilter{
		Date:    req.Date,
		StaffID: req.StaffID,
	}

	appointments, err := uc.appointmentRepo.ListByDay(ctx, filter)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
		return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	for _, appt := range appointments {
		if !appt.IsActive() {
			continue
		}

		otherStart, err := uc.grid.IndexOf(appt.TimeSlot)
		if err != nil {
			continue
		}
		otherEnd := otherStart + appt.SlotSpan(uc.grid.SlotMinutes())

		if otherStart < startOrdinal+slotsNeeded && otherEnd > startOrdinal {
			uc.logger.Warn("CreateAppointment: slot %s conflicts with appointment id=%d", req.TimeSlot, appt.ID)
			return ErrSlotTaken
		}
	}

	return nil
}

// checkNotBlocked проверяет каждый слот интервала на административный блок
func (uc *UseCase) checkNotBlocked(ctx context.Context, req *Request, startOrdinal, slotsNeeded int) error {
	for i := startOrdinal; i < startOrdinal+slotsNeeded; i++ {
		label, err := uc.grid.LabelAt(i)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}

		blocked, err := uc.blockedSlotRepo.ExistsForSlot(ctx, req.Date, label.String(), req.StaffID)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to check blocked slot %s: %v", label, err)
			return fmt.Errorf("%w: failed to check blocked slot: %v", ErrInternal, err)
		}
		if blocked {
			uc.logger.Warn("CreateAppointment: slot %s is blocked", label)
			return fmt.Errorf("%w: %s", ErrSlotBlocked, label)
		}
	}

	return nil
}

// notifyConfirmed отправляет подтверждение записи в фоне.
// Недоставленное уведомление не влияет на созданную запись.
func (uc *UseCase) notifyConfirmed(appt *domain.Appointment) {
	msg := notifier.BookingConfirmation{
		UserID:        appt.UserID,
		AppointmentID: appt.ID,
		Date:          appt.Date.Format(domain.DateFormat),
		TimeSlot:      appt.TimeSlot.String(),
		TotalAmount:   appt.TotalAmount,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := uc.notifierClient.SendBookingConfirmation(ctx, msg); err != nil {
			if errors.Is(err, notifier.ErrDisabled) {
				return
			}
			uc.logger.Warn("CreateAppointment: failed to send confirmation for appointment id=%d: %v", appt.ID, err)
		}
	}()
}
