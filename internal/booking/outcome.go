package booking

import (
	"github.com/oakfield-labs/clinic-scheduler/internal/intent"
	"github.com/oakfield-labs/clinic-scheduler/internal/schedule"
)

// Outcome is the authoritative result of one booking batch: the slots
// committed to the calendar and the requests that could not be honored. It is
// created by the orchestrator, consumed by reply composition and the message
// log, then discarded.
type Outcome struct {
	Booked []schedule.Slot
	Failed []intent.SlotRequest
}

// Dispositions summarize how a message flow ended. They feed metrics labels
// and the message log.
const (
	DispositionAvailabilitySent = "availability_sent"
	DispositionNotConfigured    = "not_configured"
	DispositionNoSlots          = "no_slots"
	DispositionClarification    = "needs_clarification"
	DispositionBooked           = "booked"
	DispositionNoneBooked       = "none_booked"
	DispositionFault            = "internal_fault"
)

// Result summarizes one handled message for job tracking and persistence.
type Result struct {
	Intent      intent.Kind // zero when classification failed
	Disposition string
	Outcome     Outcome
	Replied     bool
}
