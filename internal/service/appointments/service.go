package appointments

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/salonix/SLN-BookingService/internal/domain"
	apptRepo "github.com/salonix/SLN-BookingService/internal/infra/storage/appointment"
	"github.com/salonix/SLN-BookingService/internal/integrations/notifier"
	"github.com/salonix/SLN-BookingService/internal/service/appointments/models"
)

const notifyTimeout = 5 * time.Second

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	notifierClient  NotifierClient
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	notifierClient NotifierClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		notifierClient:  notifierClient,
		txManager:       txManager,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Пользователь может видеть только свою запись, администратор - любую
func (s *Service) GetByID(ctx context.Context, id int64, userID int64, isAdmin bool) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if appt.UserID != userID && !isAdmin {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appt), nil
}

// GetUserAppointments получает историю записей пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserAppointments(ctx context.Context, req *models.GetUserAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetUserAppointments: fetching appointments for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserAppointments: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	var appts []*domain.Appointment
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var listErr error
		appts, listErr = s.appointmentRepo.GetByUserID(txCtx, req.UserID, domainStatus)
		return listErr
	})
	if err != nil {
		s.logger.Error("GetUserAppointments: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserAppointments: successfully fetched %d appointments for user=%d", len(appts), req.UserID)
	return models.FromDomainAppointmentList(appts), nil
}

// GetDaySheet получает расписание дня для администратора.
// Без фильтра по мастеру возвращает записи всех линий.
func (s *Service) GetDaySheet(ctx context.Context, req *models.GetDaySheetRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetDaySheet: fetching appointments for date=%s, staff=%v, includeInactive=%v",
		req.Date.Format(domain.DateFormat), req.StaffID, req.IncludeInactive)

	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Вне транзакции: ListByDay внутри транзакции добавляет FOR UPDATE,
	// который несовместим с read-only режимом
	appts, err := s.appointmentRepo.ListByDayWithItems(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("GetDaySheet: repository error for date=%s: %v", req.Date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: GetDaySheet - repository error: %v", ErrInternal, err)
	}

	sortBySlotOrder(appts)

	s.logger.Info("GetDaySheet: successfully fetched %d appointments for date=%s",
		len(appts), req.Date.Format(domain.DateFormat))
	return models.FromDomainAppointmentList(appts), nil
}

// Cancel отменяет запись и возвращает товары на склад.
// Пользователь может отменить только свою запись, администратор - любую.
// Отмена и возврат товаров выполняются в одной транзакции: если возврат
// не удался, запись остается в прежнем статусе.
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", appointmentID, req.UserID)

	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if appt.UserID != req.UserID && !req.IsAdmin {
		s.logger.Warn("Cancel: access denied for user=%d to cancel appointment id=%d", req.UserID, appointmentID)
		return ErrAccessDenied
	}

	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", appointmentID, appt.Status)
		return ErrCannotCancel
	}

	if len(req.CancellationReason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.appointmentRepo.Cancel(txCtx, appointmentID, req.CancellationReason); err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				// Статус успел измениться между чтением и отменой
				return ErrCannotCancel
			}
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		// Каждое вхождение товара в записи - отдельная единица на возврат
		for _, productID := range appt.Products {
			if err := s.catalogRepo.IncrementStock(txCtx, productID); err != nil {
				return fmt.Errorf("%w: Cancel - failed to restock product id=%d: %v", ErrInternal, productID, err)
			}
		}

		return nil
	})

	if err != nil {
		if !errors.Is(err, ErrCannotCancel) {
			s.logger.Error("Cancel: transaction failed for appointment id=%d: %v", appointmentID, err)
		}
		return err
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d, restocked %d product units",
		appointmentID, len(appt.Products))

	// Уведомление после коммита, строго best-effort
	s.notifyCancelled(appt)
	return nil
}

// notifyCancelled отправляет уведомление об отмене в фоне.
// Недоставленное уведомление не влияет на выполненную отмену.
func (s *Service) notifyCancelled(appt *domain.Appointment) {
	msg := notifier.CancellationNotice{
		UserID:        appt.UserID,
		AppointmentID: appt.ID,
		Date:          appt.Date.Format(domain.DateFormat),
		TimeSlot:      appt.TimeSlot.String(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := s.notifierClient.SendCancellationNotice(ctx, msg); err != nil {
			if errors.Is(err, notifier.ErrDisabled) {
				return
			}
			s.logger.Warn("Cancel: failed to send cancellation notice for appointment id=%d: %v", appt.ID, err)
		}
	}()
}

// sortBySlotOrder сортирует записи дня хронологически по метке слота.
// Непарсящиеся метки уходят в конец, порядок внутри слота стабилен по ID.
func sortBySlotOrder(appts []*domain.Appointment) {
	sort.SliceStable(appts, func(i, j int) bool {
		a, errA := appts[i].TimeSlot.Minutes()
		b, errB := appts[j].TimeSlot.Minutes()
		if errA != nil || errB != nil {
			return errB != nil && errA == nil
		}
		if a != b {
			return a < b
		}
		return appts[i].ID < appts[j].ID
	})
}

// UpdateStatus выполняет ручной перевод статуса записи администратором.
// Переходы только вперед; отмена идет через Cancel, а не через этот метод.
func (s *Service) UpdateStatus(ctx context.Context, appointmentID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by user=%d",
		appointmentID, req.Status, req.UserID)

	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	newStatus, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, appointmentID)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	if !domain.ValidStatusTransition(appt.Status, newStatus) {
		s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for appointment id=%d",
			appt.Status, newStatus, appointmentID)
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, newStatus)
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, newStatus); err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found during update", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", appointmentID, newStatus)
	return nil
}
