package get_blocked_slots

import (
	"context"
	"time"

	"github.com/salonix/SLN-BookingService/internal/service/blockedslots/models"
)

type BlockedSlotService interface {
	ListByDate(ctx context.Context, date time.Time) (*models.BlockedSlotListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
