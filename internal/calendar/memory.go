package calendar

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Memory is a Reader and Writer over an in-process event list. It backs the
// single-binary development mode and package tests; production deployments
// use GoogleCalendar.
type Memory struct {
	mu     sync.Mutex
	events []Event
	nextID int
}

var (
	_ Reader = (*Memory)(nil)
	_ Writer = (*Memory)(nil)
)

// NewMemory creates a calendar seeded with the given events.
func NewMemory(seed ...Event) *Memory {
	return &Memory{events: append([]Event(nil), seed...)}
}

// EventsInRange returns events overlapping [start, end) in insertion order.
func (m *Memory) EventsInRange(_ context.Context, start, end time.Time) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Event
	for _, ev := range m.events {
		if ev.Start.Before(end) && ev.End.After(start) {
			out = append(out, ev)
		}
	}
	return out, nil
}

// CreateEvent appends an event and returns its generated ID. Unlike the real
// calendar, the event is visible to reads in the same snapshot.
func (m *Memory) CreateEvent(_ context.Context, summary, description string, start, end time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	ev := Event{
		ID:          fmt.Sprintf("mem-%d", m.nextID),
		Summary:     summary,
		Description: description,
		Start:       start,
		End:         end,
	}
	m.events = append(m.events, ev)
	return ev.ID, nil
}

// Len reports how many events the calendar holds.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}
