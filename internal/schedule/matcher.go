package schedule

import (
	"strings"
)

// Match resolves a requested (day, time) pair against slots. The day matches
// a slot by case-insensitive weekday name or by verbatim calendar date, so
// both "Monday" and "2025-06-02" work. The time must parse as a 12-hour clock
// and equal the slot's start hour and minute exactly. The first qualifying
// slot in input order wins; callers must not assume a match exists.
func Match(slots []Slot, day, timeStr string) (Slot, bool) {
	want, err := ParseClock(timeStr)
	if err != nil {
		return Slot{}, false
	}

	day = strings.TrimSpace(day)
	for _, s := range slots {
		if !dayMatches(s, day) {
			continue
		}
		if s.Start.Hour() == want.Hour && s.Start.Minute() == want.Minute {
			return s, true
		}
	}
	return Slot{}, false
}

func dayMatches(s Slot, day string) bool {
	return strings.EqualFold(s.Day.String(), day) || s.Date == day
}
