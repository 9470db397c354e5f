package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationTotalMinutesMatchesSplit(t *testing.T) {
	for total := 0; total <= MaxDurationMinutes; total += 15 {
		d := DurationFromMinutes(total)
		assert.NoError(t, d.Validate(15))
		assert.Equal(t, d.Hours()*60+d.Minutes(), d.TotalMinutes())

		var r TimeRecord
		r.SetDuration(d)
		assert.Equal(t, r.Hours*60+r.Minutes, r.TotalMinutes)
		assert.Equal(t, d, r.Duration())
	}
}

func TestParseClock(t *testing.T) {
	d, err := ParseClock("01:30")
	require.NoError(t, err)
	assert.Equal(t, 1, d.Hours())
	assert.Equal(t, 30, d.Minutes())
	assert.Equal(t, 90, d.TotalMinutes())
	assert.Equal(t, "01:30", d.Clock())

	d, err = ParseClock(" 12:00 ")
	require.NoError(t, err)
	assert.Equal(t, 720, d.TotalMinutes())

	for _, bad := range []string{"", "130", "aa:10", "01:60", "-1:00", "01:xx", "+1:30", "+1:+30", "01:+3", "1:30", "01:3", "001:30", " 1:30"} {
		_, err := ParseClock(bad)
		assert.ErrorIs(t, err, ErrInvalidDuration, bad)
	}
}

func TestDurationValidate(t *testing.T) {
	assert.NoError(t, NewDuration(12, 0).Validate(15))
	assert.ErrorIs(t, NewDuration(12, 15).Validate(15), ErrDurationTooLong)
	assert.ErrorIs(t, NewDuration(1, 10).Validate(15), ErrDurationStep)
	assert.ErrorIs(t, NewDuration(1, 15).Validate(30), ErrDurationStep)
	assert.NoError(t, NewDuration(1, 10).Validate(0))
	assert.ErrorIs(t, DurationFromMinutes(-5).Validate(15), ErrInvalidDuration)
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		total int
		want  string
	}{
		{0, "0h 0m"},
		{45, "0h 45m"},
		{60, "1h 0m"},
		{90, "1h 30m"},
		{720, "12h 0m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMinutes(tt.total))
	}
}
