package intent

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/oakfield-labs/clinic-scheduler/internal/schedule"
)

// Deterministic keyword fallbacks used when the LLM is unreachable or answers
// with something unusable. They are intentionally conservative: a miss here
// ends in a clarification reply, never a wrong booking.

// Heuristic is a Classifier and Extractor backed solely by the keyword
// cascade, for deployments with no LLM configured.
type Heuristic struct{}

var (
	_ Classifier = Heuristic{}
	_ Extractor  = Heuristic{}
)

func (Heuristic) Classify(_ context.Context, subject, body string) (Kind, error) {
	return HeuristicClassify(subject, body)
}

func (Heuristic) Extract(_ context.Context, subject, body string) ([]SlotRequest, error) {
	return HeuristicExtract(subject, body), nil
}

var (
	availabilityRE = regexp.MustCompile(`(?i)\b(availab\w*|openings?|open slots?|free slots?|what times?|which times?|when (are|is)|any slots?)\b`)
	bookingRE      = regexp.MustCompile(`(?i)\b(book|confirm|reserve|take|schedule|i('|\x60)?ll come|sign me up)\b`)
	dayTimeRE      = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday|\d{4}-\d{2}-\d{2})\b[^.\n,;]*?(\d{1,2}(?::\d{2})?\s*(?:a\.?m\.?|p\.?m\.?))`)
)

// HeuristicClassify applies the keyword cascade: a concrete day/time pair
// plus booking language wins, then availability language, then bare booking
// language. Anything else is unclassifiable.
func HeuristicClassify(subject, body string) (Kind, error) {
	text := subject + "\n" + body

	if bookingRE.MatchString(text) && len(HeuristicExtract(subject, body)) > 0 {
		return KindBooking, nil
	}
	if availabilityRE.MatchString(text) {
		return KindAvailability, nil
	}
	if bookingRE.MatchString(text) {
		return KindBooking, nil
	}
	return 0, errors.New("intent: message matches no known intent")
}

// HeuristicExtract scans for "<weekday or date> ... <12-hour time>" pairs in
// message order, canonicalizing the day name and time format. Pairs that do
// not parse are dropped.
func HeuristicExtract(subject, body string) []SlotRequest {
	text := subject + "\n" + body
	matches := dayTimeRE.FindAllStringSubmatch(text, -1)

	reqs := make([]SlotRequest, 0, len(matches))
	for _, m := range matches {
		day, ok := canonicalDay(m[1])
		if !ok {
			continue
		}
		clock, err := schedule.ParseClock(m[2])
		if err != nil {
			continue
		}
		reqs = append(reqs, SlotRequest{Day: day, Time: clock.String()})
	}
	return reqs
}

func canonicalDay(token string) (string, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	if token[0] >= '0' && token[0] <= '9' {
		return token, true // ISO date, kept verbatim
	}
	day, err := schedule.ParseWeekday(token)
	if err != nil {
		return "", false
	}
	return day.String(), true
}
