package schedule

import (
	"fmt"
	"time"
)

// Window is one recurring weekly interval of availability for a doctor.
// Windows are reloaded from the availability source on every evaluation, so
// edits to the source take effect without a restart.
type Window struct {
	Doctor string
	Day    time.Weekday
	Start  ClockTime
	End    ClockTime
}

// Validate checks the start-before-end invariant.
func (w Window) Validate() error {
	if !w.Start.Before(w.End) {
		return fmt.Errorf("schedule: window start %s is not before end %s", w.Start, w.End)
	}
	return nil
}
