package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonix/SLN-BookingService/pkg/types"
)

func TestNewGrid_DefaultSchedule(t *testing.T) {
	g, err := NewGrid(DefaultOpenHour, DefaultCloseHour, DefaultSlotDurationMinutes)
	require.NoError(t, err)

	assert.Equal(t, 20, g.Len())
	assert.Equal(t, 30, g.SlotMinutes())

	labels := g.Labels()
	require.Len(t, labels, 20)
	assert.Equal(t, types.TimeString("10:00 AM"), labels[0])
	assert.Equal(t, types.TimeString("12:00 PM"), labels[4])
	assert.Equal(t, types.TimeString("7:30 PM"), labels[19])
}

func TestNewGrid_LastSlotFitsBeforeClose(t *testing.T) {
	// Окно 10:00-20:00 с шагом 45 минут: последний слот должен
	// целиком уместиться до закрытия
	g, err := NewGrid(10, 20, 45)
	require.NoError(t, err)

	assert.Equal(t, 13, g.Len())

	last, err := g.LabelAt(g.Len() - 1)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("7:00 PM"), last)
}

func TestNewGrid_InvalidSchedule(t *testing.T) {
	tests := []struct {
		name        string
		openHour    int
		closeHour   int
		slotMinutes int
	}{
		{name: "open after close", openHour: 20, closeHour: 10, slotMinutes: 30},
		{name: "open equals close", openHour: 10, closeHour: 10, slotMinutes: 30},
		{name: "negative open", openHour: -1, closeHour: 20, slotMinutes: 30},
		{name: "close beyond day", openHour: 10, closeHour: 25, slotMinutes: 30},
		{name: "slot too short", openHour: 10, closeHour: 20, slotMinutes: 1},
		{name: "slot too long", openHour: 10, closeHour: 20, slotMinutes: 600},
		{name: "window shorter than slot", openHour: 10, closeHour: 11, slotMinutes: 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGrid(tt.openHour, tt.closeHour, tt.slotMinutes)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSchedule)
		})
	}
}

func TestGrid_IndexOf(t *testing.T) {
	g, err := NewGrid(10, 20, 30)
	require.NoError(t, err)

	i, err := g.IndexOf("10:00 AM")
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	i, err = g.IndexOf("2:00 PM")
	require.NoError(t, err)
	assert.Equal(t, 8, i)

	i, err = g.IndexOf("7:30 PM")
	require.NoError(t, err)
	assert.Equal(t, 19, i)
}

func TestGrid_IndexOf_NormalizesLabel(t *testing.T) {
	g, err := NewGrid(10, 20, 30)
	require.NoError(t, err)

	i, err := g.IndexOf("10:00 am")
	require.NoError(t, err)
	assert.Equal(t, 0, i)
}

func TestGrid_IndexOf_NotInGrid(t *testing.T) {
	g, err := NewGrid(10, 20, 30)
	require.NoError(t, err)

	_, err = g.IndexOf("9:00 AM")
	assert.ErrorIs(t, err, ErrSlotNotInGrid)

	_, err = g.IndexOf("10:15 AM")
	assert.ErrorIs(t, err, ErrSlotNotInGrid)

	_, err = g.IndexOf("not a time")
	assert.ErrorIs(t, err, ErrSlotNotInGrid)
}

func TestGrid_LabelAt(t *testing.T) {
	g, err := NewGrid(10, 20, 30)
	require.NoError(t, err)

	label, err := g.LabelAt(9)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("2:30 PM"), label)

	_, err = g.LabelAt(-1)
	assert.ErrorIs(t, err, ErrSlotNotInGrid)

	_, err = g.LabelAt(20)
	assert.ErrorIs(t, err, ErrSlotNotInGrid)
}

func TestGrid_Contains(t *testing.T) {
	g, err := NewGrid(10, 20, 30)
	require.NoError(t, err)

	assert.True(t, g.Contains("10:00 AM"))
	assert.True(t, g.Contains("7:30 PM"))
	assert.False(t, g.Contains("8:00 PM"))
	assert.False(t, g.Contains("9:30 AM"))
}
