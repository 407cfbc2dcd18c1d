package domain

import (
	"time"

	"github.com/salonix/SLN-BookingService/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// ServiceSelection выбранная услуга с вариантом цены
type ServiceSelection struct {
	ServiceID int64
	Variant   Variant
}

// Appointment represents a salon appointment in the system
type Appointment struct {
	ID              int64
	UserID          int64
	StaffID         *int64 // nil = общая линия (без предпочтения мастера)
	Date            time.Time
	TimeSlot        types.TimeString
	DurationMinutes int
	Status          AppointmentStatus

	Services []ServiceSelection
	Products []int64 // повторы означают несколько единиц товара

	// Server-computed, никогда не берется из запроса клиента
	TotalAmount float64

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still occupies its slot
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled && a.Status != StatusNoShow
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// IsCompleted returns true if the appointment is completed or was a no-show
func (a *Appointment) IsCompleted() bool {
	return a.Status == StatusCompleted || a.Status == StatusNoShow
}

// SlotSpan возвращает количество слотов сетки, занимаемых записью
func (a *Appointment) SlotSpan(slotMinutes int) int {
	return SlotsNeeded(a.DurationMinutes, slotMinutes)
}

// SlotsNeeded возвращает количество смежных слотов для суммарной длительности:
// ceil(totalMinutes / slotMinutes), минимум 1
func SlotsNeeded(totalMinutes, slotMinutes int) int {
	if slotMinutes <= 0 {
		return 1
	}
	n := (totalMinutes + slotMinutes - 1) / slotMinutes
	if n < 1 {
		return 1
	}
	return n
}

// DayFilter фильтр для получения записей на день
type DayFilter struct {
	Date            time.Time
	StaffID         *int64 // nil = общая линия; фильтр по staff_id IS NULL
	AnyLane         bool   // true = все линии (для административных выборок)
	IncludeInactive bool   // включать ли отмененные и no-show
}

// ValidStatusTransition проверяет допустимость ручного перевода статуса.
// Переходы только вперед, отмененные записи не возвращаются к жизни.
func ValidStatusTransition(from, to AppointmentStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCompleted || to == StatusNoShow
	case StatusConfirmed:
		return to == StatusCompleted || to == StatusNoShow
	default:
		return false
	}
}
