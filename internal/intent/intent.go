// Package intent classifies inbound messages and extracts structured slot
// requests from them. Classification is a closed two-variant enum so flows
// can switch exhaustively; anything a backend produces outside those two
// variants surfaces as an error, which callers turn into a clarification
// reply.
package intent

import (
	"context"
	"fmt"
	"strings"
)

// Kind is the classified purpose of an inbound message.
type Kind int

const (
	// KindAvailability asks which slots are open this week.
	KindAvailability Kind = iota + 1
	// KindBooking confirms one or more specific slots.
	KindBooking
)

// String returns the wire label used in prompts and persistence.
func (k Kind) String() string {
	switch k {
	case KindAvailability:
		return "AVAILABILITY_REQUEST"
	case KindBooking:
		return "BOOKING_CONFIRMATION"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a wire label back to its Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AVAILABILITY_REQUEST":
		return KindAvailability, nil
	case "BOOKING_CONFIRMATION":
		return KindBooking, nil
	default:
		return 0, fmt.Errorf("intent: unrecognized intent %q", s)
	}
}

// SlotRequest is one atomic requested (day, time) pair pulled from a booking
// message. Day is a weekday name or an ISO date; Time is a 12-hour clock
// string with meridiem. A single message commonly carries several, and they
// are honored strictly in order.
type SlotRequest struct {
	Day  string `json:"day"`
	Time string `json:"time"`
}

// Classifier decides whether a message asks for availability or confirms a
// booking.
type Classifier interface {
	Classify(ctx context.Context, subject, body string) (Kind, error)
}

// Extractor pulls the ordered requested slots out of a booking message. An
// empty result means the message named no usable day/time pair; callers ask
// the sender to restate.
type Extractor interface {
	Extract(ctx context.Context, subject, body string) ([]SlotRequest, error)
}
