package availability

import (
	"context"
	"strings"

	"github.com/oakfield-labs/clinic-scheduler/internal/schedule"
	"github.com/oakfield-labs/clinic-scheduler/pkg/logging"
)

// Store turns raw source rows into validated schedule windows.
type Store struct {
	source Source
	logger *logging.Logger
}

// NewStore creates a store over the given source.
func NewStore(source Source, logger *logging.Logger) *Store {
	if source == nil {
		panic("availability: source cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{source: source, logger: logger}
}

// Read returns the doctor's recurring windows for the week. It never returns
// an error: a failed or empty read yields an empty list, which callers
// present to the requester as "no availability configured". Rows for other
// doctors are skipped silently, as are rows with fewer than four fields or
// unparseable day/time values.
func (s *Store) Read(ctx context.Context, doctor string) []schedule.Window {
	rows, err := s.source.Read(ctx, doctor)
	if err != nil {
		s.logger.Warn("availability source read failed", "doctor", doctor, "error", err)
		return nil
	}

	windows := make([]schedule.Window, 0, len(rows))
	for _, row := range rows {
		if len(row) < 4 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if !strings.EqualFold(name, strings.TrimSpace(doctor)) {
			continue
		}
		day, err := schedule.ParseWeekday(row[1])
		if err != nil {
			continue
		}
		start, err := schedule.ParseClock(row[2])
		if err != nil {
			continue
		}
		end, err := schedule.ParseClock(row[3])
		if err != nil {
			continue
		}
		w := schedule.Window{Doctor: name, Day: day, Start: start, End: end}
		if err := w.Validate(); err != nil {
			s.logger.Warn("skipping inverted availability row", "doctor", name, "day", row[1], "error", err)
			continue
		}
		windows = append(windows, w)
	}
	return windows
}
