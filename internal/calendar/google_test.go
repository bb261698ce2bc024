package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gcal "google.golang.org/api/calendar/v3"
)

func TestGoogleToEvent(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	g := &GoogleCalendar{calendarID: "primary", loc: loc}

	tests := []struct {
		name      string
		item      *gcal.Event
		wantStart time.Time
		wantEnd   time.Time
		wantOK    bool
	}{
		{
			name: "timed event converts to local time",
			item: &gcal.Event{
				Id:    "timed",
				Start: &gcal.EventDateTime{DateTime: "2025-06-02T14:00:00Z"},
				End:   &gcal.EventDateTime{DateTime: "2025-06-02T15:00:00Z"},
			},
			wantStart: time.Date(2025, 6, 2, 10, 0, 0, 0, loc),
			wantEnd:   time.Date(2025, 6, 2, 11, 0, 0, 0, loc),
			wantOK:    true,
		},
		{
			name: "single all-day event blocks the whole day",
			item: &gcal.Event{
				Id:    "holiday",
				Start: &gcal.EventDateTime{Date: "2025-06-02"},
				End:   &gcal.EventDateTime{Date: "2025-06-03"},
			},
			wantStart: time.Date(2025, 6, 2, 0, 0, 0, 0, loc),
			wantEnd:   time.Date(2025, 6, 3, 0, 0, 0, 0, loc),
			wantOK:    true,
		},
		{
			name: "multi-day all-day event blocks every day it spans",
			item: &gcal.Event{
				Id:    "vacation",
				Start: &gcal.EventDateTime{Date: "2025-06-02"},
				End:   &gcal.EventDateTime{Date: "2025-06-05"},
			},
			wantStart: time.Date(2025, 6, 2, 0, 0, 0, 0, loc),
			wantEnd:   time.Date(2025, 6, 5, 0, 0, 0, 0, loc),
			wantOK:    true,
		},
		{
			name: "all-day event with missing end date falls back to one day",
			item: &gcal.Event{
				Id:    "partial",
				Start: &gcal.EventDateTime{Date: "2025-06-02"},
				End:   &gcal.EventDateTime{},
			},
			wantStart: time.Date(2025, 6, 2, 0, 0, 0, 0, loc),
			wantEnd:   time.Date(2025, 6, 3, 0, 0, 0, 0, loc),
			wantOK:    true,
		},
		{
			name: "unparseable start is skipped",
			item: &gcal.Event{
				Id:    "broken",
				Start: &gcal.EventDateTime{DateTime: "not-a-time"},
				End:   &gcal.EventDateTime{DateTime: "2025-06-02T15:00:00Z"},
			},
			wantOK: false,
		},
		{
			name:   "nil start is skipped",
			item:   &gcal.Event{Id: "empty"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := g.toEvent(tt.item)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.True(t, ev.Start.Equal(tt.wantStart), "start: got %v want %v", ev.Start, tt.wantStart)
			assert.True(t, ev.End.Equal(tt.wantEnd), "end: got %v want %v", ev.End, tt.wantEnd)
		})
	}
}
