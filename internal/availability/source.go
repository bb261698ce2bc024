// Package availability loads a doctor's recurring weekly hours from a tabular
// source. The source of truth is a spreadsheet the clinic staff edit by hand,
// so rows are re-read on every request and nothing is cached.
package availability

import "context"

// Source reads raw availability rows for a doctor. Rows carry the columns
// [doctor, day, start, end] with start/end as 12-hour clock strings.
// Implementations filter by doctor case-insensitively; the Store filters
// again, so a source returning extra rows is harmless.
type Source interface {
	Read(ctx context.Context, doctor string) ([][]string, error)
}
