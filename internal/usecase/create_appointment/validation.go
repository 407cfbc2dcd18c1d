package create_appointment

import (
	"fmt"
	"time"

	"github.com/salonix/SLN-BookingService/internal/domain"
	"github.com/salonix/SLN-BookingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.TimeSlot.IsZero() {
		return fmt.Errorf("%w: timeSlot is required", ErrInvalidInput)
	}

	if err := req.TimeSlot.Validate(); err != nil {
		return fmt.Errorf("%w: invalid timeSlot format: %v", ErrInvalidInput, err)
	}

	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if len(req.Services) == 0 && len(req.Products) == 0 {
		return fmt.Errorf("%w: at least one service or product is required", ErrInvalidInput)
	}

	if len(req.Services) > domain.MaxServicesPerAppointment {
		return fmt.Errorf("%w: too many services, max %d", ErrInvalidInput, domain.MaxServicesPerAppointment)
	}

	if len(req.Products) > domain.MaxProductsPerAppointment {
		return fmt.Errorf("%w: too many products, max %d", ErrInvalidInput, domain.MaxProductsPerAppointment)
	}

	seen := make(map[int64]bool, len(req.Services))
	for _, sel := range req.Services {
		if sel.ServiceID <= 0 {
			return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
		}
		if err := sel.Variant.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if seen[sel.ServiceID] {
			return fmt.Errorf("%w: duplicate service id=%d", ErrInvalidInput, sel.ServiceID)
		}
		seen[sel.ServiceID] = true
	}

	for _, id := range req.Products {
		if id <= 0 {
			return fmt.Errorf("%w: productID must be positive", ErrInvalidInput)
		}
	}

	return nil
}

// validateDate проверяет, что дата записи не в прошлом
func validateDate(date time.Time, now time.Time) error {
	if isDateInPast(date, now) {
		return ErrInvalidDate
	}
	return nil
}

// validateSlotNotInPast проверяет, что слот на сегодня еще не начался
func validateSlotNotInPast(date time.Time, slot types.TimeString, now time.Time) error {
	if !isSameDay(date, now) {
		return nil
	}

	slotMinutes, err := slot.Minutes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	}

	nowMinutes := now.Hour()*60 + now.Minute()
	if slotMinutes <= nowMinutes {
		return ErrTimeSlotInPast
	}

	return nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
