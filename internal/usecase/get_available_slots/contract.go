package get_available_slots

import (
	"context"
	"time"

	"github.com/salonix/SLN-BookingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// ListByDay получает записи на дату с фильтрацией по линии
	ListByDay(ctx context.Context, filter domain.DayFilter) ([]*domain.Appointment, error)
}

// BlockedSlotRepository интерфейс репозитория административных блоков
type BlockedSlotRepository interface {
	ListByDate(ctx context.Context, date time.Time) ([]*domain.BlockedSlot, error)
}

// CatalogRepository интерфейс каталога услуг
type CatalogRepository interface {
	GetActiveServicesByIDs(ctx context.Context, ids []int64) ([]*domain.Service, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
