// Package calendar defines the narrow contracts the scheduling engine uses to
// observe and mutate the doctor's external calendar, plus the Google Calendar
// implementation.
package calendar

import (
	"context"
	"time"
)

// Event is a read-only snapshot of one interval on the doctor's calendar.
// The engine never mutates events it has read; bookings go through Writer and
// are expected to appear on a later read, not in the same snapshot.
type Event struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// Reader fetches events overlapping a time range. A read failure is non-fatal
// to callers, which degrade to the unfiltered slot set.
type Reader interface {
	EventsInRange(ctx context.Context, start, end time.Time) ([]Event, error)
}

// Writer creates calendar events. A failed create marks that one booking
// request as failed without aborting the rest of the batch.
type Writer interface {
	CreateEvent(ctx context.Context, summary, description string, start, end time.Time) (string, error)
}
