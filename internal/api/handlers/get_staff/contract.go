package get_staff

import (
	"context"

	"github.com/salonix/SLN-BookingService/internal/domain"
)

// StaffProvider интерфейс справочника сотрудников
type StaffProvider interface {
	ListActive(ctx context.Context) ([]*domain.Staff, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
