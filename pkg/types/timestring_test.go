package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeString(t *testing.T) {
	ts := NewTimeString(time.Date(2026, 9, 15, 14, 30, 0, 0, time.UTC))
	assert.Equal(t, "2:30 PM", ts.String())

	ts = NewTimeString(time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, "10:00 AM", ts.String())
}

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "canonical morning", input: "10:00 AM", want: "10:00 AM"},
		{name: "canonical evening", input: "7:30 PM", want: "7:30 PM"},
		{name: "lowercase meridiem", input: "10:00 am", want: "10:00 AM"},
		{name: "noon", input: "12:00 PM", want: "12:00 PM"},
		{name: "midnight", input: "12:00 AM", want: "12:00 AM"},
		{name: "24h format rejected", input: "14:30", wantErr: true},
		{name: "garbage", input: "not a time", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNewTimeStringFromMinutes(t *testing.T) {
	ts, err := NewTimeStringFromMinutes(600)
	require.NoError(t, err)
	assert.Equal(t, "10:00 AM", ts.String())

	ts, err = NewTimeStringFromMinutes(1170)
	require.NoError(t, err)
	assert.Equal(t, "7:30 PM", ts.String())

	_, err = NewTimeStringFromMinutes(-10)
	assert.Error(t, err)

	_, err = NewTimeStringFromMinutes(24 * 60)
	assert.Error(t, err)
}

func TestTimeString_Minutes(t *testing.T) {
	ts, err := NewTimeStringFromString("2:00 PM")
	require.NoError(t, err)

	minutes, err := ts.Minutes()
	require.NoError(t, err)
	assert.Equal(t, 14*60, minutes)
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts, err := NewTimeStringFromString("10:00 AM")
	require.NoError(t, err)

	got, err := ts.AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, "11:30 AM", got.String())
}

func TestTimeString_Compare(t *testing.T) {
	morning, err := NewTimeStringFromString("10:00 AM")
	require.NoError(t, err)
	evening, err := NewTimeStringFromString("7:30 PM")
	require.NoError(t, err)

	assert.True(t, morning.IsBefore(evening))
	assert.False(t, evening.IsBefore(morning))
	assert.True(t, evening.IsAfter(morning))
	assert.False(t, morning.IsBefore(morning))
	assert.False(t, morning.IsAfter(morning))
}

func TestTimeString_Validate(t *testing.T) {
	valid := TimeString("10:00 AM")
	assert.NoError(t, valid.Validate())

	invalid := TimeString("25:99")
	assert.Error(t, invalid.Validate())
}
