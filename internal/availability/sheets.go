package availability

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsSource reads availability rows from a Google Sheets range, typically
// "Availability!A2:D" so the header row stays out of the data.
type SheetsSource struct {
	svc           *sheets.Service
	spreadsheetID string
	readRange     string
}

var _ Source = (*SheetsSource)(nil)

// SheetsConfig carries the settings for NewSheetsSource. Exactly one of
// CredentialsJSON or APIKey must be set; an API key only works for sheets
// shared as readable by link.
type SheetsConfig struct {
	SpreadsheetID   string
	ReadRange       string
	CredentialsJSON string
	APIKey          string
}

// NewSheetsSource builds a source over the configured spreadsheet range.
func NewSheetsSource(ctx context.Context, cfg SheetsConfig) (*SheetsSource, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("availability: spreadsheet id is required")
	}

	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	default:
		return nil, errors.New("availability: sheets credentials or api key required")
	}
	opts = append(opts, option.WithScopes(sheets.SpreadsheetsReadonlyScope))

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("availability: create sheets service: %w", err)
	}

	readRange := cfg.ReadRange
	if readRange == "" {
		readRange = "Availability!A2:D"
	}

	return &SheetsSource{svc: svc, spreadsheetID: cfg.SpreadsheetID, readRange: readRange}, nil
}

// Read fetches the range and returns the rows matching doctor.
func (s *SheetsSource) Read(ctx context.Context, doctor string) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("availability: sheets read: %w", err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		if len(raw) == 0 {
			continue
		}
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, strings.TrimSpace(fmt.Sprint(cell)))
		}
		if !strings.EqualFold(row[0], strings.TrimSpace(doctor)) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
