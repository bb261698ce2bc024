package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oakfield-labs/clinic-scheduler/internal/booking"
	"github.com/oakfield-labs/clinic-scheduler/internal/calendar"
	"github.com/oakfield-labs/clinic-scheduler/internal/mailroom"
	"github.com/oakfield-labs/clinic-scheduler/internal/messagelog"
	"github.com/oakfield-labs/clinic-scheduler/internal/observability/metrics"
	"github.com/oakfield-labs/clinic-scheduler/internal/schedule"
	"github.com/oakfield-labs/clinic-scheduler/pkg/logging"
)

// AdminHandler serves the operator endpoints: a live availability preview,
// the message log, scheduler counters, and job status lookups.
type AdminHandler struct {
	doctor       string
	loc          *time.Location
	availability booking.AvailabilityReader
	calendar     calendar.Reader
	messages     *messagelog.Store
	jobs         mailroom.JobRecorder
	gatherer     prometheus.Gatherer
	logger       *logging.Logger
	now          func() time.Time
}

// AdminConfig carries the handler's collaborators. Availability is required;
// everything else degrades to "not configured" responses when nil.
type AdminConfig struct {
	Doctor       string
	Location     *time.Location
	Availability booking.AvailabilityReader
	Calendar     calendar.Reader
	Messages     *messagelog.Store
	Jobs         mailroom.JobRecorder
	Gatherer     prometheus.Gatherer
	Logger       *logging.Logger
	Now          func() time.Time
}

func NewAdminHandler(cfg AdminConfig) *AdminHandler {
	if cfg.Availability == nil {
		panic("handlers: availability reader cannot be nil")
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &AdminHandler{
		doctor:       cfg.Doctor,
		loc:          cfg.Location,
		availability: cfg.Availability,
		calendar:     cfg.Calendar,
		messages:     cfg.Messages,
		jobs:         cfg.Jobs,
		gatherer:     cfg.Gatherer,
		logger:       cfg.Logger,
		now:          cfg.Now,
	}
}

type slotView struct {
	Day   string `json:"day"`
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
	Label string `json:"label"`
}

// GetAvailability previews this week's open slots exactly as the engine
// would offer them: generate, then filter against the live calendar, with
// the same degrade-to-unfiltered policy on read failure.
func (h *AdminHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	windows := h.availability.Read(ctx, h.doctor)
	if len(windows) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{"doctor": h.doctor, "configured": false, "slots": []slotView{}})
		return
	}

	slots := schedule.Generate(windows, h.now().In(h.loc))
	filtered := slots
	if len(slots) > 0 && h.calendar != nil {
		from := slots[0].Start
		to := slots[len(slots)-1].End.AddDate(0, 0, 1)
		events, err := h.calendar.EventsInRange(ctx, from, to)
		if err != nil {
			h.logger.Warn("calendar read failed for availability preview", "error", err)
		} else {
			filtered = schedule.Filter(slots, events)
		}
	}

	views := make([]slotView, 0, len(filtered))
	for _, s := range filtered {
		views = append(views, slotView{
			Day:   s.Day.String(),
			Date:  s.Date,
			Start: s.Start.Format(time.RFC3339),
			End:   s.End.Format(time.RFC3339),
			Label: s.Label,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"doctor": h.doctor, "configured": true, "slots": views})
}

// ListMessages returns the most recent message log records.
func (h *AdminHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	if h.messages == nil {
		http.Error(w, "message log not configured", http.StatusNotImplemented)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	records, err := h.messages.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list messages", "error", err)
		http.Error(w, "failed to list messages", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": records})
}

// GetStats returns the scheduler counters as a JSON snapshot.
func (h *AdminHandler) GetStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, metrics.Collect(h.gatherer))
}

// GetJob returns the processing status of one enqueued message.
func (h *AdminHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil {
		http.Error(w, "job store not configured", http.StatusNotImplemented)
		return
	}

	jobID := chi.URLParam(r, "jobID")
	job, err := h.jobs.GetJob(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, mailroom.ErrJobNotFound) {
			http.Error(w, "job not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to fetch job", "job_id", jobID, "error", err)
		http.Error(w, "failed to fetch job", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, job)
}
