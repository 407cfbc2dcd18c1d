package models

import (
	"time"

	"github.com/salonix/SLN-BookingService/internal/domain"
)

// Request модели

// CreateBlockedSlotRequest запрос на создание административного блока
type CreateBlockedSlotRequest struct {
	Date     time.Time `json:"date"`
	TimeSlot string    `json:"timeSlot"`          // Метка слота ("10:00 AM") или "ALL"
	StaffID  *int64    `json:"staffId,omitempty"` // nil = блок на все линии
	Reason   *string   `json:"reason,omitempty"`
}

// ToDomain конвертирует request в domain модель
func (r *CreateBlockedSlotRequest) ToDomain() *domain.BlockedSlot {
	return &domain.BlockedSlot{
		Date:     r.Date,
		TimeSlot: r.TimeSlot,
		StaffID:  r.StaffID,
		Reason:   r.Reason,
	}
}

// Response модели

// BlockedSlotResponse ответ с данными блока
type BlockedSlotResponse struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date"`     // "2026-09-15"
	TimeSlot  string    `json:"timeSlot"` // "10:00 AM" или "ALL"
	StaffID   *int64    `json:"staffId,omitempty"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// BlockedSlotListResponse ответ со списком блоков
type BlockedSlotListResponse struct {
	BlockedSlots []BlockedSlotResponse `json:"blockedSlots"`
}

// FromDomainBlockedSlot конвертирует domain модель в DTO
func FromDomainBlockedSlot(b *domain.BlockedSlot) *BlockedSlotResponse {
	if b == nil {
		return nil
	}

	return &BlockedSlotResponse{
		ID:        b.ID,
		Date:      b.Date.Format(domain.DateFormat),
		TimeSlot:  b.TimeSlot,
		StaffID:   b.StaffID,
		Reason:    b.Reason,
		CreatedAt: b.CreatedAt,
	}
}

// FromDomainBlockedSlotList конвертирует список domain моделей в DTO
func FromDomainBlockedSlotList(blocks []*domain.BlockedSlot) *BlockedSlotListResponse {
	list := make([]BlockedSlotResponse, 0, len(blocks))
	for _, b := range blocks {
		list = append(list, *FromDomainBlockedSlot(b))
	}
	return &BlockedSlotListResponse{BlockedSlots: list}
}
