package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/salonix/SLN-BookingService/pkg/ptr"
)

func TestBlockedSlot_IsAllDay(t *testing.T) {
	b := &BlockedSlot{TimeSlot: AllDaySlot}
	assert.True(t, b.IsAllDay())

	b = &BlockedSlot{TimeSlot: "10:00 AM"}
	assert.False(t, b.IsAllDay())
}

func TestBlockedSlot_AppliesToLane(t *testing.T) {
	tests := []struct {
		name        string
		blockStaff  *int64
		laneStaff   *int64
		wantApplies bool
	}{
		{name: "global block on shared lane", blockStaff: nil, laneStaff: nil, wantApplies: true},
		{name: "global block on staff lane", blockStaff: nil, laneStaff: ptr.Ptr(int64(3)), wantApplies: true},
		{name: "staff block on own lane", blockStaff: ptr.Ptr(int64(3)), laneStaff: ptr.Ptr(int64(3)), wantApplies: true},
		{name: "staff block on other lane", blockStaff: ptr.Ptr(int64(3)), laneStaff: ptr.Ptr(int64(5)), wantApplies: false},
		{name: "staff block on shared lane", blockStaff: ptr.Ptr(int64(3)), laneStaff: nil, wantApplies: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &BlockedSlot{TimeSlot: "10:00 AM", StaffID: tt.blockStaff}
			assert.Equal(t, tt.wantApplies, b.AppliesToLane(tt.laneStaff))
		})
	}
}
