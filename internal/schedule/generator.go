package schedule

import (
	"sort"
	"time"
)

// Generate expands recurring windows into concrete slots for the week
// containing now. Weeks run Monday through Sunday in now's location. A window
// is walked in one-hour steps from its start; a trailing remainder shorter
// than a full hour yields no slot. Slots starting at or before now are
// discarded, and availability is evaluated against the current week only:
// there is no rollover into next week. The result is ordered by start time.
func Generate(windows []Window, now time.Time) []Slot {
	if len(windows) == 0 {
		return nil
	}

	monday := weekStart(now)
	slots := make([]Slot, 0, len(windows)*8)

	for _, w := range windows {
		if w.Validate() != nil {
			continue
		}

		day := monday.AddDate(0, 0, mondayOffset(w.Day))
		cursor := time.Date(day.Year(), day.Month(), day.Day(), w.Start.Hour, w.Start.Minute, 0, 0, now.Location())
		windowEnd := time.Date(day.Year(), day.Month(), day.Day(), w.End.Hour, w.End.Minute, 0, 0, now.Location())

		for !cursor.Add(SlotDuration).After(windowEnd) {
			if cursor.After(now) {
				slots = append(slots, newSlot(cursor))
			}
			cursor = cursor.Add(SlotDuration)
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Start.Before(slots[j].Start) })
	return slots
}

// weekStart returns midnight on the Monday of the week containing t.
func weekStart(t time.Time) time.Time {
	day := t.AddDate(0, 0, -mondayOffset(t.Weekday()))
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, t.Location())
}

func mondayOffset(d time.Weekday) int {
	return (int(d) + 6) % 7
}
