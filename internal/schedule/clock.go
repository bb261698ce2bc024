// Package schedule turns recurring weekly availability into concrete bookable
// slots and reconciles them against calendar state. Everything in this package
// is pure computation; calendar reads and writes live with the callers.
package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ClockTime is a wall-clock time of day with minute precision.
type ClockTime struct {
	Hour   int // 0-23
	Minute int // 0-59
}

var clockRE = regexp.MustCompile(`(?i)^\s*(\d{1,2})(?::(\d{2}))?\s*(a\.?m\.?|p\.?m\.?)\s*$`)

// ParseClock parses a 12-hour clock string with meridiem, e.g. "9:00 AM",
// "12:30 pm" or "4 PM".
func ParseClock(s string) (ClockTime, error) {
	m := clockRE.FindStringSubmatch(s)
	if m == nil {
		return ClockTime{}, fmt.Errorf("schedule: invalid clock time %q", s)
	}

	hour, _ := strconv.Atoi(m[1])
	if hour < 1 || hour > 12 {
		return ClockTime{}, fmt.Errorf("schedule: hour out of range in %q", s)
	}

	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
		if minute > 59 {
			return ClockTime{}, fmt.Errorf("schedule: minute out of range in %q", s)
		}
	}

	pm := strings.HasPrefix(strings.ToLower(m[3]), "p")
	if hour == 12 {
		hour = 0
	}
	if pm {
		hour += 12
	}

	return ClockTime{Hour: hour, Minute: minute}, nil
}

// Minutes returns the time of day as minutes past midnight.
func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

// Before reports whether c is earlier in the day than other.
func (c ClockTime) Before(other ClockTime) bool {
	return c.Minutes() < other.Minutes()
}

// String renders the 12-hour form, e.g. "9:00 AM".
func (c ClockTime) String() string {
	t := time.Date(2000, time.January, 1, c.Hour, c.Minute, 0, 0, time.UTC)
	return t.Format("3:04 PM")
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"sun":       time.Sunday,
	"monday":    time.Monday,
	"mon":       time.Monday,
	"tuesday":   time.Tuesday,
	"tue":       time.Tuesday,
	"tues":      time.Tuesday,
	"wednesday": time.Wednesday,
	"wed":       time.Wednesday,
	"thursday":  time.Thursday,
	"thu":       time.Thursday,
	"thur":      time.Thursday,
	"thurs":     time.Thursday,
	"friday":    time.Friday,
	"fri":       time.Friday,
	"saturday":  time.Saturday,
	"sat":       time.Saturday,
}

// ParseWeekday parses a weekday name or common abbreviation, case-insensitive.
func ParseWeekday(s string) (time.Weekday, error) {
	day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return time.Sunday, fmt.Errorf("schedule: unknown weekday %q", s)
	}
	return day, nil
}
