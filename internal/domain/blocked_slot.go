package domain

import (
	"time"
)

// BlockedSlot административный блок слота.
// TimeSlot = AllDaySlot закрывает весь день, StaffID = nil распространяет
// блок на все линии (всех мастеров и общую линию).
type BlockedSlot struct {
	ID        int64
	Date      time.Time
	TimeSlot  string // метка слота ("10:00 AM") или AllDaySlot
	StaffID   *int64
	Reason    *string
	CreatedAt time.Time
}

// IsAllDay возвращает true для блока на весь день
func (b *BlockedSlot) IsAllDay() bool {
	return b.TimeSlot == AllDaySlot
}

// AppliesToLane возвращает true, если блок действует на указанную линию.
// Глобальный блок (StaffID == nil) действует на любую линию.
func (b *BlockedSlot) AppliesToLane(staffID *int64) bool {
	if b.StaffID == nil {
		return true
	}
	return staffID != nil && *b.StaffID == *staffID
}
