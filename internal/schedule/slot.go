package schedule

import (
	"fmt"
	"time"
)

// SlotDuration is the fixed length of every bookable slot.
const SlotDuration = time.Hour

// Slot is one concrete, dated, bookable hour. Slots are value objects
// regenerated on every evaluation and never persisted.
type Slot struct {
	Day   time.Weekday
	Date  string // clinic-local calendar date, YYYY-MM-DD
	Start time.Time
	End   time.Time
	Label string
}

func newSlot(start time.Time) Slot {
	end := start.Add(SlotDuration)
	return Slot{
		Day:   start.Weekday(),
		Date:  start.Format("2006-01-02"),
		Start: start,
		End:   end,
		Label: slotLabel(start, end),
	}
}

// slotLabel renders the presentation form, e.g.
// "Monday June 2, 2025 — 9:00 AM to 10:00 AM".
func slotLabel(start, end time.Time) string {
	return fmt.Sprintf("%s %s — %s to %s",
		start.Weekday(),
		start.Format("January 2, 2006"),
		start.Format("3:04 PM"),
		end.Format("3:04 PM"),
	)
}

// TimeRange renders just the hour range, e.g. "9:00 AM to 10:00 AM".
func (s Slot) TimeRange() string {
	return fmt.Sprintf("%s to %s", s.Start.Format("3:04 PM"), s.End.Format("3:04 PM"))
}
