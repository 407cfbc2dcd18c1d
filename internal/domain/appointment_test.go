package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotsNeeded(t *testing.T) {
	tests := []struct {
		name         string
		totalMinutes int
		slotMinutes  int
		want         int
	}{
		{name: "exact single slot", totalMinutes: 30, slotMinutes: 30, want: 1},
		{name: "exact double slot", totalMinutes: 60, slotMinutes: 30, want: 2},
		{name: "rounds up", totalMinutes: 45, slotMinutes: 30, want: 2},
		{name: "rounds up long", totalMinutes: 95, slotMinutes: 30, want: 4},
		{name: "zero duration takes one slot", totalMinutes: 0, slotMinutes: 30, want: 1},
		{name: "negative duration takes one slot", totalMinutes: -10, slotMinutes: 30, want: 1},
		{name: "zero slot size falls back to one", totalMinutes: 60, slotMinutes: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SlotsNeeded(tt.totalMinutes, tt.slotMinutes))
		})
	}
}

func TestAppointment_SlotSpan(t *testing.T) {
	a := &Appointment{DurationMinutes: 75}
	assert.Equal(t, 3, a.SlotSpan(30))

	a = &Appointment{DurationMinutes: 30}
	assert.Equal(t, 1, a.SlotSpan(30))
}

func TestAppointment_IsActive(t *testing.T) {
	for _, status := range ActiveStatuses {
		a := &Appointment{Status: status}
		assert.True(t, a.IsActive(), "status %s", status)
	}
	for _, status := range InactiveStatuses {
		a := &Appointment{Status: status}
		assert.False(t, a.IsActive(), "status %s", status)
	}
}

func TestAppointment_CanBeCancelled(t *testing.T) {
	tests := []struct {
		status AppointmentStatus
		want   bool
	}{
		{status: StatusPending, want: true},
		{status: StatusConfirmed, want: true},
		{status: StatusCompleted, want: false},
		{status: StatusCancelled, want: false},
		{status: StatusNoShow, want: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			a := &Appointment{Status: tt.status}
			assert.Equal(t, tt.want, a.CanBeCancelled())
		})
	}
}

func TestValidStatusTransition(t *testing.T) {
	tests := []struct {
		name string
		from AppointmentStatus
		to   AppointmentStatus
		want bool
	}{
		{name: "pending to confirmed", from: StatusPending, to: StatusConfirmed, want: true},
		{name: "pending to completed", from: StatusPending, to: StatusCompleted, want: true},
		{name: "pending to no_show", from: StatusPending, to: StatusNoShow, want: true},
		{name: "confirmed to completed", from: StatusConfirmed, to: StatusCompleted, want: true},
		{name: "confirmed to no_show", from: StatusConfirmed, to: StatusNoShow, want: true},
		{name: "confirmed back to pending", from: StatusConfirmed, to: StatusPending, want: false},
		{name: "completed is terminal", from: StatusCompleted, to: StatusConfirmed, want: false},
		{name: "cancelled is terminal", from: StatusCancelled, to: StatusConfirmed, want: false},
		{name: "no_show is terminal", from: StatusNoShow, to: StatusCompleted, want: false},
		{name: "pending to cancelled goes through Cancel", from: StatusPending, to: StatusCancelled, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidStatusTransition(tt.from, tt.to))
		})
	}
}
