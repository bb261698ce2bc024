package schedule

import (
	"github.com/oakfield-labs/clinic-scheduler/internal/calendar"
)

// Filter removes slots that overlap any calendar event, preserving input
// order. Overlap is open-interval: an event that only touches a slot boundary
// does not conflict, so back-to-back bookings remain offerable.
func Filter(slots []Slot, events []calendar.Event) []Slot {
	if len(events) == 0 {
		return slots
	}

	kept := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if !conflicts(s, events) {
			kept = append(kept, s)
		}
	}
	return kept
}

func conflicts(s Slot, events []calendar.Event) bool {
	for _, ev := range events {
		if ev.Start.Before(s.End) && ev.End.After(s.Start) {
			return true
		}
	}
	return false
}
