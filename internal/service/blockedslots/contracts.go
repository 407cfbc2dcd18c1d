package blockedslots

import (
	"context"
	"time"

	"github.com/salonix/SLN-BookingService/internal/domain"
)

// BlockedSlotRepository интерфейс репозитория административных блоков
type BlockedSlotRepository interface {
	Create(ctx context.Context, block *domain.BlockedSlot) (*domain.BlockedSlot, error)
	Delete(ctx context.Context, id int64) error
	ListByDate(ctx context.Context, date time.Time) ([]*domain.BlockedSlot, error)
}

// StaffRepository интерфейс справочника сотрудников
type StaffRepository interface {
	GetActiveByID(ctx context.Context, id int64) (*domain.Staff, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
