package create_appointment

import (
	"context"
	"time"

	"github.com/salonix/SLN-BookingService/internal/domain"
	"github.com/salonix/SLN-BookingService/internal/integrations/notifier"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	ListByDay(ctx context.Context, filter domain.DayFilter) ([]*domain.Appointment, error)
}

// CatalogRepository интерфейс каталога услуг и товаров
type CatalogRepository interface {
	GetActiveServicesByIDs(ctx context.Context, ids []int64) ([]*domain.Service, error)
	GetActiveProductsByIDs(ctx context.Context, ids []int64) ([]*domain.Product, error)
	DecrementStock(ctx context.Context, productID int64) error
}

// BlockedSlotRepository интерфейс репозитория административных блоков
type BlockedSlotRepository interface {
	ExistsForSlot(ctx context.Context, date time.Time, slot string, staffID *int64) (bool, error)
}

// StaffRepository интерфейс справочника сотрудников
type StaffRepository interface {
	GetActiveByID(ctx context.Context, id int64) (*domain.Staff, error)
}

// NotifierClient интерфейс клиента диспетчера уведомлений
type NotifierClient interface {
	SendBookingConfirmation(ctx context.Context, msg notifier.BookingConfirmation) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
