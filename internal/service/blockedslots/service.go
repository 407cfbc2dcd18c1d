package blockedslots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/salonix/SLN-BookingService/internal/domain"
	blockRepo "github.com/salonix/SLN-BookingService/internal/infra/storage/blockedslot"
	staffRepo "github.com/salonix/SLN-BookingService/internal/infra/storage/staff"
	"github.com/salonix/SLN-BookingService/internal/service/blockedslots/models"
	"github.com/salonix/SLN-BookingService/pkg/types"
)

// Service сервис для работы с административными блоками слотов
type Service struct {
	blockedSlotRepo BlockedSlotRepository
	staffRepo       StaffRepository
	grid            *domain.Grid
	logger          Logger
}

// NewService создает новый экземпляр сервиса блоков
func NewService(
	blockedSlotRepo BlockedSlotRepository,
	staffRepo StaffRepository,
	grid *domain.Grid,
	logger Logger,
) *Service {
	return &Service{
		blockedSlotRepo: blockedSlotRepo,
		staffRepo:       staffRepo,
		grid:            grid,
		logger:          logger,
	}
}

// Create создает административный блок слота.
// Принимает метку слота из сетки дня или AllDaySlot для блока на весь день.
func (s *Service) Create(ctx context.Context, req *models.CreateBlockedSlotRequest) (*models.BlockedSlotResponse, error) {
	s.logger.Info("CreateBlockedSlot: date=%s, slot=%s, staff=%v",
		req.Date.Format(domain.DateFormat), req.TimeSlot, req.StaffID)

	if err := s.validateCreate(ctx, req); err != nil {
		s.logger.Warn("CreateBlockedSlot: validation failed: %v", err)
		return nil, err
	}

	block := req.ToDomain()
	if !block.IsAllDay() {
		// Нормализуем метку, чтобы в хранилище не было "10:00 am" рядом с "10:00 AM"
		normalized, err := types.NewTimeStringFromString(block.TimeSlot)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid time slot: %v", ErrInvalidInput, err)
		}
		block.TimeSlot = normalized.String()
	}

	created, err := s.blockedSlotRepo.Create(ctx, block)
	if err != nil {
		s.logger.Error("CreateBlockedSlot: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateBlockedSlot: successfully created block id=%d", created.ID)
	return models.FromDomainBlockedSlot(created), nil
}

// Delete удаляет административный блок по ID
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("DeleteBlockedSlot: deleting block id=%d", id)

	if err := s.blockedSlotRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, blockRepo.ErrBlockNotFound) {
			s.logger.Warn("DeleteBlockedSlot: block id=%d not found", id)
			return ErrBlockNotFound
		}
		s.logger.Error("DeleteBlockedSlot: repository error for block id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteBlockedSlot: successfully deleted block id=%d", id)
	return nil
}

// ListByDate возвращает все блоки на дату
func (s *Service) ListByDate(ctx context.Context, date time.Time) (*models.BlockedSlotListResponse, error) {
	s.logger.Info("ListBlockedSlots: fetching blocks for date=%s", date.Format(domain.DateFormat))

	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	blocks, err := s.blockedSlotRepo.ListByDate(ctx, date)
	if err != nil {
		s.logger.Error("ListBlockedSlots: repository error for date=%s: %v", date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: ListByDate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListBlockedSlots: successfully fetched %d blocks for date=%s",
		len(blocks), date.Format(domain.DateFormat))
	return models.FromDomainBlockedSlotList(blocks), nil
}

// validateCreate валидирует запрос на создание блока
func (s *Service) validateCreate(ctx context.Context, req *models.CreateBlockedSlotRequest) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.TimeSlot == "" {
		return fmt.Errorf("%w: timeSlot is required", ErrInvalidInput)
	}

	if req.TimeSlot != domain.AllDaySlot && !s.grid.Contains(types.TimeString(req.TimeSlot)) {
		return fmt.Errorf("%w: time slot %q is not in the day grid", ErrInvalidInput, req.TimeSlot)
	}

	if req.Reason != nil && len(*req.Reason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: reason is too long", ErrInvalidInput)
	}

	if req.StaffID != nil {
		if *req.StaffID <= 0 {
			return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
		}
		if _, err := s.staffRepo.GetActiveByID(ctx, *req.StaffID); err != nil {
			if errors.Is(err, staffRepo.ErrStaffNotFound) {
				return ErrStaffNotFound
			}
			return fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
		}
	}

	return nil
}
