package block_slot

import (
	"time"

	"github.com/salonix/SLN-BookingService/internal/domain"
	"github.com/salonix/SLN-BookingService/internal/service/blockedslots/models"
)

// BlockSlotRequest HTTP request model
type BlockSlotRequest struct {
	Date     string  `json:"date"`     // "2026-09-15"
	TimeSlot string  `json:"timeSlot"` // "10:00 AM" или "ALL"
	StaffID  *int64  `json:"staffId,omitempty"`
	Reason   *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *BlockSlotRequest) ToServiceRequest() (*models.CreateBlockedSlotRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &models.CreateBlockedSlotRequest{
		Date:     date,
		TimeSlot: r.TimeSlot,
		StaffID:  r.StaffID,
		Reason:   r.Reason,
	}, nil
}
