package availability

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// CSVSource reads availability rows from a local CSV file with the columns
// doctor, day, start, end. The file is parsed fresh on every call so staff
// edits take effect without a restart.
type CSVSource struct {
	path string
}

var _ Source = (*CSVSource)(nil)

// NewCSVSource creates a source over the file at path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Read returns the rows matching doctor. A missing file means no availability
// has been configured yet and yields no rows and no error.
func (s *CSVSource) Read(ctx context.Context, doctor string) ([][]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("availability: open %s: %w", s.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("availability: parse %s: %w", s.path, err)
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		if len(rec) == 0 {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(rec[0]), strings.TrimSpace(doctor)) {
			continue
		}
		rows = append(rows, rec)
	}
	return rows, nil
}
