package get_day_sheet

import (
	"context"

	"github.com/salonix/SLN-BookingService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetDaySheet(ctx context.Context, req *models.GetDaySheetRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
