package block_slot

import (
	"context"

	"github.com/salonix/SLN-BookingService/internal/service/blockedslots/models"
)

type BlockedSlotService interface {
	Create(ctx context.Context, req *models.CreateBlockedSlotRequest) (*models.BlockedSlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
