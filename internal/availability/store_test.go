package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakfield-labs/clinic-scheduler/internal/schedule"
)

type fakeSource struct {
	rows [][]string
	err  error
}

func (f *fakeSource) Read(ctx context.Context, doctor string) ([][]string, error) {
	return f.rows, f.err
}

func TestStoreReadParsesRows(t *testing.T) {
	src := &fakeSource{rows: [][]string{
		{"Dr. Reyes", "Monday", "9:00 AM", "12:00 PM"},
		{"Dr. Reyes", "Wednesday", "2:00 PM", "5:00 PM"},
	}}
	store := NewStore(src, nil)

	windows := store.Read(context.Background(), "Dr. Reyes")
	require.Len(t, windows, 2)
	assert.Equal(t, time.Monday, windows[0].Day)
	assert.Equal(t, schedule.ClockTime{Hour: 9}, windows[0].Start)
	assert.Equal(t, schedule.ClockTime{Hour: 12}, windows[0].End)
	assert.Equal(t, time.Wednesday, windows[1].Day)
	assert.Equal(t, schedule.ClockTime{Hour: 17}, windows[1].End)
}

func TestStoreReadFiltersAndSkips(t *testing.T) {
	src := &fakeSource{rows: [][]string{
		{"Dr. Reyes", "Monday", "9:00 AM", "12:00 PM"},
		{"Dr. Osei", "Monday", "9:00 AM", "12:00 PM"},       // other doctor
		{"Dr. Reyes", "Monday", "9:00 AM"},                  // short row
		{"Dr. Reyes", "Moonday", "9:00 AM", "12:00 PM"},     // bad weekday
		{"Dr. Reyes", "Tuesday", "nineish", "12:00 PM"},     // bad start
		{"Dr. Reyes", "Tuesday", "9:00 AM", "25:00"},        // bad end
		{"Dr. Reyes", "Tuesday", "12:00 PM", "9:00 AM"},     // inverted
		{"dr. reyes", "Friday", "10:00 AM", "11:00 AM"},     // case-insensitive match
	}}
	store := NewStore(src, nil)

	windows := store.Read(context.Background(), "Dr. Reyes")
	require.Len(t, windows, 2)
	assert.Equal(t, time.Monday, windows[0].Day)
	assert.Equal(t, time.Friday, windows[1].Day)
}

func TestStoreReadSwallowsSourceFailure(t *testing.T) {
	src := &fakeSource{err: errors.New("spreadsheet unreachable")}
	store := NewStore(src, nil)

	windows := store.Read(context.Background(), "Dr. Reyes")
	assert.Empty(t, windows)
}

func TestStoreReadEmptySource(t *testing.T) {
	store := NewStore(&fakeSource{}, nil)
	assert.Empty(t, store.Read(context.Background(), "Dr. Reyes"))
}

func TestNewStoreNilSourcePanics(t *testing.T) {
	assert.Panics(t, func() { NewStore(nil, nil) })
}
