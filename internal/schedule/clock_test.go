package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ClockTime
		wantErr bool
	}{
		{"morning with minutes", "9:00 AM", ClockTime{9, 0}, false},
		{"afternoon", "2:30 PM", ClockTime{14, 30}, false},
		{"noon", "12:00 PM", ClockTime{12, 0}, false},
		{"midnight", "12:00 AM", ClockTime{0, 0}, false},
		{"no minutes", "4 PM", ClockTime{16, 0}, false},
		{"lowercase", "10:15 am", ClockTime{10, 15}, false},
		{"dotted meridiem", "9:30 p.m.", ClockTime{21, 30}, false},
		{"surrounding spaces", "  11:00 AM  ", ClockTime{11, 0}, false},
		{"24 hour style rejected", "14:00", ClockTime{}, true},
		{"hour out of range", "13:00 PM", ClockTime{}, true},
		{"minute out of range", "9:75 AM", ClockTime{}, true},
		{"empty", "", ClockTime{}, true},
		{"words", "morningish", ClockTime{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClockTimeString(t *testing.T) {
	assert.Equal(t, "9:00 AM", ClockTime{9, 0}.String())
	assert.Equal(t, "12:00 PM", ClockTime{12, 0}.String())
	assert.Equal(t, "12:00 AM", ClockTime{0, 0}.String())
	assert.Equal(t, "4:30 PM", ClockTime{16, 30}.String())
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Weekday
		wantErr bool
	}{
		{"Monday", time.Monday, false},
		{"monday", time.Monday, false},
		{"MON", time.Monday, false},
		{"tues", time.Tuesday, false},
		{"Thurs", time.Thursday, false},
		{" friday ", time.Friday, false},
		{"Sun", time.Sunday, false},
		{"someday", time.Sunday, true},
		{"", time.Sunday, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWeekday(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWindowValidate(t *testing.T) {
	ok := Window{Doctor: "Dr. Reyes", Day: time.Monday, Start: ClockTime{9, 0}, End: ClockTime{12, 0}}
	require.NoError(t, ok.Validate())

	inverted := Window{Day: time.Monday, Start: ClockTime{12, 0}, End: ClockTime{9, 0}}
	require.Error(t, inverted.Validate())

	empty := Window{Day: time.Monday, Start: ClockTime{9, 0}, End: ClockTime{9, 0}}
	require.Error(t, empty.Validate())
}
