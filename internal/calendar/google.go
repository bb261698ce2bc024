package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

var googleTracer = otel.Tracer("scheduler.internal.calendar.google")

// GoogleCalendar implements Reader and Writer over the Google Calendar API
// with a service-account credential.
type GoogleCalendar struct {
	svc        *gcal.Service
	calendarID string
	loc        *time.Location
}

var (
	_ Reader = (*GoogleCalendar)(nil)
	_ Writer = (*GoogleCalendar)(nil)
)

// GoogleConfig carries the settings for NewGoogleCalendar.
type GoogleConfig struct {
	CalendarID      string
	CredentialsJSON string
	Location        *time.Location
}

// NewGoogleCalendar builds a client for the configured calendar.
func NewGoogleCalendar(ctx context.Context, cfg GoogleConfig) (*GoogleCalendar, error) {
	if cfg.CredentialsJSON == "" {
		return nil, errors.New("calendar: google credentials are required")
	}

	svc, err := gcal.NewService(ctx,
		option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)),
		option.WithScopes(gcal.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("calendar: create service: %w", err)
	}

	id := cfg.CalendarID
	if id == "" {
		id = "primary"
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	return &GoogleCalendar{svc: svc, calendarID: id, loc: loc}, nil
}

// EventsInRange lists events overlapping [start, end), following pagination.
func (g *GoogleCalendar) EventsInRange(ctx context.Context, start, end time.Time) ([]Event, error) {
	ctx, span := googleTracer.Start(ctx, "calendar.events_in_range")
	defer span.End()
	span.SetAttributes(attribute.String("calendar.id", g.calendarID))

	var events []Event
	pageToken := ""
	for {
		call := g.svc.Events.List(g.calendarID).
			TimeMin(start.Format(time.RFC3339)).
			TimeMax(end.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			MaxResults(250).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("calendar: list events: %w", err)
		}
		for _, item := range resp.Items {
			if ev, ok := g.toEvent(item); ok {
				events = append(events, ev)
			}
		}
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	span.SetAttributes(attribute.Int("calendar.event_count", len(events)))
	return events, nil
}

// toEvent converts an API event. All-day events block every local day they
// span (the API's end date is exclusive); events with unparseable times are
// skipped rather than failing the read.
func (g *GoogleCalendar) toEvent(item *gcal.Event) (Event, bool) {
	if item == nil || item.Start == nil || item.End == nil {
		return Event{}, false
	}

	ev := Event{ID: item.Id, Summary: item.Summary, Description: item.Description}

	if item.Start.DateTime == "" && item.Start.Date != "" {
		day, err := time.ParseInLocation("2006-01-02", item.Start.Date, g.loc)
		if err != nil {
			return Event{}, false
		}
		ev.Start = day
		ev.End = day.AddDate(0, 0, 1)
		if item.End.Date != "" {
			if end, err := time.ParseInLocation("2006-01-02", item.End.Date, g.loc); err == nil && end.After(day) {
				ev.End = end
			}
		}
		return ev, true
	}

	start, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return Event{}, false
	}
	end, err := time.Parse(time.RFC3339, item.End.DateTime)
	if err != nil {
		return Event{}, false
	}
	ev.Start = start.In(g.loc)
	ev.End = end.In(g.loc)
	return ev, true
}

// CreateEvent inserts a booking on the calendar and returns its event ID.
func (g *GoogleCalendar) CreateEvent(ctx context.Context, summary, description string, start, end time.Time) (string, error) {
	ctx, span := googleTracer.Start(ctx, "calendar.create_event")
	defer span.End()
	span.SetAttributes(
		attribute.String("calendar.id", g.calendarID),
		attribute.String("calendar.event_start", start.Format(time.RFC3339)),
	)

	ev := &gcal.Event{
		Summary:     summary,
		Description: description,
		Start:       &gcal.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: end.Format(time.RFC3339)},
	}

	created, err := g.svc.Events.Insert(g.calendarID, ev).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("calendar: insert event: %w", err)
	}
	return created.Id, nil
}
