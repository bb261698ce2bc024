// Package booking drives the reply-for-every-message scheduling flow: it
// classifies an inbound email, walks the availability pipeline, commits
// bookings to the calendar, and always sends exactly one reply.
package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/oakfield-labs/clinic-scheduler/internal/calendar"
	"github.com/oakfield-labs/clinic-scheduler/internal/intent"
	"github.com/oakfield-labs/clinic-scheduler/internal/observability/metrics"
	"github.com/oakfield-labs/clinic-scheduler/internal/reply"
	"github.com/oakfield-labs/clinic-scheduler/internal/schedule"
	"github.com/oakfield-labs/clinic-scheduler/pkg/logging"
)

var orchestratorTracer = otel.Tracer("scheduler.internal.booking.orchestrator")

// Inbound is the slice of an inbound email the orchestrator needs.
type Inbound struct {
	MessageID string
	From      string
	FromName  string
	Subject   string
	Body      string
}

// AvailabilityReader yields the recurring weekly windows for a doctor. A
// doctor with no configuration yields an empty set, never an error.
type AvailabilityReader interface {
	Read(ctx context.Context, doctor string) []schedule.Window
}

// Config carries the orchestrator's collaborators. Doctor, Availability,
// Calendar, Writer, Classifier, Extractor, and Sender are required.
type Config struct {
	Doctor       string
	Clinic       string
	Location     *time.Location
	Availability AvailabilityReader
	Calendar     calendar.Reader
	Writer       calendar.Writer
	Classifier   intent.Classifier
	Extractor    intent.Extractor
	Sender       reply.Sender
	Provider     string // reply provider name, used only as a metrics label
	Logger       *logging.Logger
	Metrics      *metrics.SchedulingMetrics
	Now          func() time.Time
}

// Orchestrator serializes message handling for one doctor. The mutex is the
// concurrency contract: slot matching and calendar commits for a message run
// start to finish before the next message begins, so two messages can never
// claim the same slot inside a single process.
type Orchestrator struct {
	doctor       string
	clinic       string
	loc          *time.Location
	availability AvailabilityReader
	calendar     calendar.Reader
	writer       calendar.Writer
	classifier   intent.Classifier
	extractor    intent.Extractor
	sender       reply.Sender
	provider     string
	logger       *logging.Logger
	metrics      *metrics.SchedulingMetrics
	now          func() time.Time

	mu sync.Mutex
}

func NewOrchestrator(cfg Config) *Orchestrator {
	if cfg.Doctor == "" {
		panic("booking: doctor name cannot be empty")
	}
	if cfg.Availability == nil {
		panic("booking: availability reader cannot be nil")
	}
	if cfg.Calendar == nil || cfg.Writer == nil {
		panic("booking: calendar reader and writer cannot be nil")
	}
	if cfg.Classifier == nil || cfg.Extractor == nil {
		panic("booking: classifier and extractor cannot be nil")
	}
	if cfg.Sender == nil {
		panic("booking: reply sender cannot be nil")
	}
	if cfg.Clinic == "" {
		cfg.Clinic = "Clinic Scheduling"
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Provider == "" {
		cfg.Provider = "stub"
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Orchestrator{
		doctor:       cfg.Doctor,
		clinic:       cfg.Clinic,
		loc:          cfg.Location,
		availability: cfg.Availability,
		calendar:     cfg.Calendar,
		writer:       cfg.Writer,
		classifier:   cfg.Classifier,
		extractor:    cfg.Extractor,
		sender:       cfg.Sender,
		provider:     cfg.Provider,
		logger:       cfg.Logger.WithComponent("booking"),
		metrics:      cfg.Metrics,
		now:          cfg.Now,
	}
}

// HandleMessage runs the full flow for one inbound email and reports how it
// ended. It never returns an error and never panics: a panic anywhere in the
// flow is recovered, logged, and answered with a generic failure reply so the
// patient always hears back.
func (o *Orchestrator) HandleMessage(ctx context.Context, msg Inbound) (res Result) {
	o.mu.Lock()
	defer o.mu.Unlock()

	ctx, span := orchestratorTracer.Start(ctx, "booking.handle_message")
	defer span.End()

	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("message flow panicked", "message_id", msg.MessageID, "panic", fmt.Sprint(r))
			res = Result{Disposition: DispositionFault}
			res.Replied = o.sendReply(ctx, msg, faultBody(o.clinic))
			o.metrics.ObserveMessage("unknown", DispositionFault)
		}
		span.SetAttributes(
			attribute.String("booking.disposition", res.Disposition),
			attribute.Int("booking.booked_count", len(res.Outcome.Booked)),
		)
	}()

	kind, err := o.classifier.Classify(ctx, msg.Subject, msg.Body)
	if err != nil {
		o.logger.Warn("message matched no known intent", "message_id", msg.MessageID, "error", err)
		res = Result{Disposition: DispositionClarification}
		res.Replied = o.sendReply(ctx, msg, clarificationBody(o.clinic))
		o.metrics.ObserveMessage("unknown", res.Disposition)
		return res
	}
	span.SetAttributes(attribute.String("booking.intent", kind.String()))

	switch kind {
	case intent.KindBooking:
		res = o.bookingFlow(ctx, msg)
	default:
		res = o.availabilityFlow(ctx, msg)
	}
	res.Intent = kind
	o.metrics.ObserveMessage(kind.String(), res.Disposition)
	o.metrics.ObserveFlowLatency(kind.String(), time.Since(started).Seconds())
	return res
}

func (o *Orchestrator) availabilityFlow(ctx context.Context, msg Inbound) Result {
	open, stop := o.openSlots(ctx, msg)
	if stop != nil {
		return *stop
	}
	res := Result{Disposition: DispositionAvailabilitySent}
	res.Replied = o.sendReply(ctx, msg, availabilityBody(o.doctor, o.clinic, open))
	return res
}

func (o *Orchestrator) bookingFlow(ctx context.Context, msg Inbound) Result {
	reqs, err := o.extractor.Extract(ctx, msg.Subject, msg.Body)
	if err != nil {
		o.logger.Warn("slot extraction failed", "message_id", msg.MessageID, "error", err)
		reqs = nil
	}
	if len(reqs) == 0 {
		res := Result{Disposition: DispositionClarification}
		res.Replied = o.sendReply(ctx, msg, restateBody(o.clinic))
		return res
	}

	open, stop := o.openSlots(ctx, msg)
	if stop != nil {
		return *stop
	}

	pool := schedule.NewPool(open)
	var out Outcome
	for _, req := range reqs {
		slot, ok := pool.Match(req.Day, req.Time)
		if !ok {
			o.logger.Info("no open slot matches request", "day", req.Day, "time", req.Time)
			out.Failed = append(out.Failed, req)
			o.metrics.ObserveBookingAttempt("no_match")
			continue
		}
		eventID, err := o.writer.CreateEvent(ctx, o.eventSummary(msg), o.eventDescription(msg), slot.Start, slot.End)
		if err != nil {
			o.logger.Error("calendar commit failed", "slot", slot.Label, "error", err)
			out.Failed = append(out.Failed, req)
			o.metrics.ObserveBookingAttempt("commit_failed")
			continue
		}
		pool.Remove(slot.Start)
		out.Booked = append(out.Booked, slot)
		o.metrics.ObserveBookingAttempt("booked")
		o.logger.Info("slot booked", "slot", slot.Label, "event_id", eventID, "from", msg.From)
	}

	res := Result{Outcome: out}
	if len(out.Booked) > 0 {
		res.Disposition = DispositionBooked
		res.Replied = o.sendReply(ctx, msg, confirmationBody(o.doctor, o.clinic, out))
	} else {
		res.Disposition = DispositionNoneBooked
		res.Replied = o.sendReply(ctx, msg, apologyBody(o.doctor, o.clinic, pool.Slots()))
	}
	return res
}

// openSlots walks the shared front half of both flows: read windows, generate
// this week's slots, and filter out calendar conflicts. A non-nil stop result
// means the flow already replied (no configuration, or no slots left) and the
// caller must return it as-is.
func (o *Orchestrator) openSlots(ctx context.Context, msg Inbound) (open []schedule.Slot, stop *Result) {
	windows := o.availability.Read(ctx, o.doctor)
	if len(windows) == 0 {
		res := Result{Disposition: DispositionNotConfigured}
		res.Replied = o.sendReply(ctx, msg, notConfiguredBody(o.doctor, o.clinic))
		return nil, &res
	}

	slots := schedule.Generate(windows, o.now().In(o.loc))
	if len(slots) == 0 {
		res := Result{Disposition: DispositionNoSlots}
		res.Replied = o.sendReply(ctx, msg, noSlotsBody(o.doctor, o.clinic))
		return nil, &res
	}

	from := slots[0].Start
	to := slots[len(slots)-1].End.AddDate(0, 0, 1)
	events, err := o.calendar.EventsInRange(ctx, from, to)
	if err != nil {
		// Degraded mode: offer the unfiltered slots rather than go silent.
		o.logger.Warn("calendar read failed, offering unfiltered slots", "error", err)
		return slots, nil
	}
	return schedule.Filter(slots, events), nil
}

// sendReply is the single exit point for patient-facing mail. Send failures
// are logged and absorbed; the flow's outcome stands regardless.
func (o *Orchestrator) sendReply(ctx context.Context, msg Inbound, body string) bool {
	err := o.sender.Send(ctx, reply.Message{
		To:        msg.From,
		ToName:    msg.FromName,
		Subject:   replySubject(msg.Subject),
		Body:      body,
		InReplyTo: msg.MessageID,
	})
	if err != nil {
		o.logger.Error("reply send failed", "message_id", msg.MessageID, "to", msg.From, "error", err)
		o.metrics.ObserveReply(o.provider, "failed")
		return false
	}
	o.metrics.ObserveReply(o.provider, "sent")
	return true
}

func (o *Orchestrator) eventSummary(msg Inbound) string {
	who := msg.FromName
	if who == "" {
		who = msg.From
	}
	return fmt.Sprintf("Appointment: %s", who)
}

func (o *Orchestrator) eventDescription(msg Inbound) string {
	return fmt.Sprintf("Booked by %s scheduling from an email by %s.\nSubject: %s", o.clinic, msg.From, msg.Subject)
}
