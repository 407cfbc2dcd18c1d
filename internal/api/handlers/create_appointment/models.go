package create_appointment

import (
	"time"

	"github.com/salonix/SLN-BookingService/internal/domain"
	createAppointment "github.com/salonix/SLN-BookingService/internal/usecase/create_appointment"
	"github.com/salonix/SLN-BookingService/pkg/types"
)

// ServiceSelectionRequest выбранная услуга в HTTP запросе
type ServiceSelectionRequest struct {
	ServiceID int64  `json:"serviceId"`
	Variant   string `json:"variant"` // "male" или "female"
}

// CreateAppointmentRequest HTTP request model.
// Суммы в запросе не принимаются: цена считается на сервере.
type CreateAppointmentRequest struct {
	Date     string                    `json:"date"`     // "2026-09-15"
	TimeSlot string                    `json:"timeSlot"` // "10:00 AM"
	StaffID  *int64                    `json:"staffId,omitempty"`
	Services []ServiceSelectionRequest `json:"services"`
	Products []int64                   `json:"products"` // Повторы = несколько единиц
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64                     `json:"id"`
	UserID          int64                     `json:"userId"`
	StaffID         *int64                    `json:"staffId,omitempty"`
	Date            string                    `json:"date"`
	TimeSlot        string                    `json:"timeSlot"`
	DurationMinutes int                       `json:"durationMinutes"`
	Status          string                    `json:"status"`
	Services        []ServiceSelectionRequest `json:"services"`
	Products        []int64                   `json:"products"`
	TotalAmount     float64                   `json:"totalAmount"`
	CreatedAt       string                    `json:"createdAt"`
	UpdatedAt       string                    `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(userID int64) (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	timeSlot, err := types.NewTimeStringFromString(r.TimeSlot)
	if err != nil {
		return nil, err
	}

	services := make([]domain.ServiceSelection, 0, len(r.Services))
	for _, sel := range r.Services {
		services = append(services, domain.ServiceSelection{
			ServiceID: sel.ServiceID,
			Variant:   domain.Variant(sel.Variant),
		})
	}

	return &createAppointment.Request{
		UserID:   userID,
		Date:     date,
		TimeSlot: timeSlot,
		StaffID:  r.StaffID,
		Services: services,
		Products: r.Products,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	services := make([]ServiceSelectionRequest, 0, len(resp.Services))
	for _, sel := range resp.Services {
		services = append(services, ServiceSelectionRequest{
			ServiceID: sel.ServiceID,
			Variant:   string(sel.Variant),
		})
	}

	products := resp.Products
	if products == nil {
		products = []int64{}
	}

	return &AppointmentResponse{
		ID:              resp.ID,
		UserID:          resp.UserID,
		StaffID:         resp.StaffID,
		Date:            resp.Date.Format(domain.DateFormat),
		TimeSlot:        resp.TimeSlot.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		Services:        services,
		Products:        products,
		TotalAmount:     resp.TotalAmount,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
