package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakfield-labs/clinic-scheduler/internal/calendar"
	"github.com/oakfield-labs/clinic-scheduler/internal/mailroom"
	"github.com/oakfield-labs/clinic-scheduler/internal/schedule"
)

type staticAvailability struct {
	windows []schedule.Window
}

func (s staticAvailability) Read(_ context.Context, _ string) []schedule.Window {
	return s.windows
}

func newAdminForTest(t *testing.T, cal calendar.Reader, windows []schedule.Window) *AdminHandler {
	t.Helper()
	return NewAdminHandler(AdminConfig{
		Doctor:       "Dr. Shah",
		Location:     time.UTC,
		Availability: staticAvailability{windows: windows},
		Calendar:     cal,
		Gatherer:     prometheus.NewRegistry(),
		// Monday morning, before the first slot of the week.
		Now: func() time.Time { return time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC) },
	})
}

func TestGetAvailabilityFiltersBusySlots(t *testing.T) {
	windows := []schedule.Window{{
		Doctor: "Dr. Shah",
		Day:    time.Monday,
		Start:  schedule.ClockTime{Hour: 10},
		End:    schedule.ClockTime{Hour: 12},
	}}
	// 2025-06-02 is a Monday; block the 10:00 slot.
	busy := calendar.NewMemory(calendar.Event{
		Start: time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC),
	})

	h := newAdminForTest(t, busy, windows)
	rr := httptest.NewRecorder()
	h.GetAvailability(rr, httptest.NewRequest(http.MethodGet, "/admin/availability", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Doctor     string     `json:"doctor"`
		Configured bool       `json:"configured"`
		Slots      []slotView `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Dr. Shah", resp.Doctor)
	assert.True(t, resp.Configured)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "Monday", resp.Slots[0].Day)
	assert.Equal(t, "2025-06-02", resp.Slots[0].Date)
}

func TestGetAvailabilityDegradesOnCalendarFailure(t *testing.T) {
	windows := []schedule.Window{{
		Doctor: "Dr. Shah",
		Day:    time.Monday,
		Start:  schedule.ClockTime{Hour: 10},
		End:    schedule.ClockTime{Hour: 12},
	}}

	h := newAdminForTest(t, failingCalendar{}, windows)
	rr := httptest.NewRecorder()
	h.GetAvailability(rr, httptest.NewRequest(http.MethodGet, "/admin/availability", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Slots []slotView `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Slots, 2)
}

func TestGetAvailabilityUnconfiguredDoctor(t *testing.T) {
	h := newAdminForTest(t, calendar.NewMemory(), nil)
	rr := httptest.NewRecorder()
	h.GetAvailability(rr, httptest.NewRequest(http.MethodGet, "/admin/availability", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Configured bool       `json:"configured"`
		Slots      []slotView `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Configured)
	assert.Empty(t, resp.Slots)
}

type failingCalendar struct{}

func (failingCalendar) EventsInRange(context.Context, time.Time, time.Time) ([]calendar.Event, error) {
	return nil, assert.AnError
}

func TestGetStatsReturnsSnapshot(t *testing.T) {
	h := newAdminForTest(t, calendar.NewMemory(), nil)
	rr := httptest.NewRecorder()
	h.GetStats(rr, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var snap struct {
		MessagesByIntent map[string]uint64 `json:"messages_by_intent"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.NotNil(t, snap.MessagesByIntent)
}

func TestGetJobStatuses(t *testing.T) {
	h := NewAdminHandler(AdminConfig{
		Availability: staticAvailability{},
		Jobs:         &fakeJobRecorder{},
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/jobs/missing", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("jobID", "missing")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rr := httptest.NewRecorder()
	h.GetJob(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestJobEndpointsRequireStores(t *testing.T) {
	h := NewAdminHandler(AdminConfig{Availability: staticAvailability{}})

	rr := httptest.NewRecorder()
	h.GetJob(rr, httptest.NewRequest(http.MethodGet, "/admin/jobs/x", nil))
	assert.Equal(t, http.StatusNotImplemented, rr.Code)

	rr = httptest.NewRecorder()
	h.ListMessages(rr, httptest.NewRequest(http.MethodGet, "/admin/messages", nil))
	assert.Equal(t, http.StatusNotImplemented, rr.Code)
}

var _ mailroom.JobRecorder = (*fakeJobRecorder)(nil)
