package models

import (
	"errors"
	"time"

	"github.com/salonix/SLN-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	UserID             int64  `json:"userId"`
	IsAdmin            bool   `json:"-"`
	CancellationReason string `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на ручной перевод статуса записи
type UpdateStatusRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// GetUserAppointmentsRequest запрос на историю записей пользователя
type GetUserAppointmentsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetDaySheetRequest запрос расписания дня для администратора
type GetDaySheetRequest struct {
	Date            time.Time `json:"date"`
	StaffID         *int64    `json:"staffId,omitempty"`         // Фильтр по линии мастера (опционально)
	IncludeInactive bool      `json:"includeInactive,omitempty"` // Включить отмененные записи
}

// ToDomainFilter конвертирует request в domain фильтр.
// Без фильтра по мастеру расписание дня охватывает все линии.
func (r *GetDaySheetRequest) ToDomainFilter() domain.DayFilter {
	return domain.DayFilter{
		Date:            r.Date,
		StaffID:         r.StaffID,
		AnyLane:         r.StaffID == nil,
		IncludeInactive: r.IncludeInactive,
	}
}

// Response модели

// ServiceSelectionResponse выбранная услуга в ответе
type ServiceSelectionResponse struct {
	ServiceID int64  `json:"serviceId"`
	Variant   string `json:"variant"`
}

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64                      `json:"id"`
	UserID          int64                      `json:"userId"`
	StaffID         *int64                     `json:"staffId,omitempty"`
	Date            string                     `json:"date"`     // "2026-09-15"
	TimeSlot        string                     `json:"timeSlot"` // "10:00 AM"
	DurationMinutes int                        `json:"durationMinutes"`
	Status          string                     `json:"status"`
	Services        []ServiceSelectionResponse `json:"services"`
	Products        []int64                    `json:"products"`
	TotalAmount     float64                    `json:"totalAmount"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// ToDomainStatus конвертирует строковый статус в domain.AppointmentStatus
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	switch domain.AppointmentStatus(status) {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusCompleted,
		domain.StatusCancelled, domain.StatusNoShow:
		return domain.AppointmentStatus(status), nil
	default:
		return "", ErrInvalidStatus
	}
}

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	services := make([]ServiceSelectionResponse, 0, len(a.Services))
	for _, sel := range a.Services {
		services = append(services, ServiceSelectionResponse{
			ServiceID: sel.ServiceID,
			Variant:   string(sel.Variant),
		})
	}

	products := a.Products
	if products == nil {
		products = []int64{}
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		UserID:             a.UserID,
		StaffID:            a.StaffID,
		Date:               a.Date.Format(domain.DateFormat),
		TimeSlot:           a.TimeSlot.String(),
		DurationMinutes:    a.DurationMinutes,
		Status:             string(a.Status),
		Services:           services,
		Products:           products,
		TotalAmount:        a.TotalAmount,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		cancelledAt := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appts []*domain.Appointment) *AppointmentListResponse {
	list := make([]AppointmentResponse, 0, len(appts))
	for _, a := range appts {
		list = append(list, *FromDomainAppointment(a))
	}
	return &AppointmentListResponse{Appointments: list}
}
