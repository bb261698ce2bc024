package messagelog

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakfield-labs/clinic-scheduler/internal/booking"
	"github.com/oakfield-labs/clinic-scheduler/internal/intent"
	"github.com/oakfield-labs/clinic-scheduler/internal/mailroom"
	"github.com/oakfield-labs/clinic-scheduler/internal/schedule"
)

func TestStoreInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)

	mock.ExpectExec("INSERT INTO message_log").
		WithArgs(sqlmock.AnyArg(), "msg-1", "pat@example.com", "Pat", "Booking", "BOOKING_CONFIRMATION",
			booking.DispositionBooked, pq.Array([]string{"Monday 11:00 AM"}), pq.Array([]string{"2025-06-02T10:00:00Z"}),
			1, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = store.Insert(context.Background(), Record{
		MessageID:      "msg-1",
		Sender:         "pat@example.com",
		SenderName:     "Pat",
		Subject:        "Booking",
		Intent:         "BOOKING_CONFIRMATION",
		Disposition:    booking.DispositionBooked,
		RequestedSlots: []string{"Monday 11:00 AM"},
		BookedStarts:   []string{"2025-06-02T10:00:00Z"},
		FailedCount:    1,
		Replied:        true,
		ReceivedAt:     time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreRecent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "message_id", "sender", "sender_name", "subject", "intent",
		"disposition", "requested_slots", "booked_starts", "failed_count", "replied", "received_at", "processed_at"}).
		AddRow("r1", "msg-1", "pat@example.com", "", "hours?", "AVAILABILITY_REQUEST",
			booking.DispositionAvailabilitySent, pq.Array([]string{}), pq.Array([]string{}), 0, true, now, now)

	mock.ExpectQuery("SELECT (.+) FROM message_log").WithArgs(50).WillReturnRows(rows)

	out, err := store.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "msg-1", out[0].MessageID)
	assert.NotNil(t, out[0].RequestedSlots)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordMessageMapsResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO message_log").
		WithArgs(sqlmock.AnyArg(), "msg-2", "pat@example.com", "Pat", "Booking", "BOOKING_CONFIRMATION",
			booking.DispositionBooked, pq.Array([]string{"Monday 11:00 AM"}), pq.Array([]string{"2025-06-02T10:00:00Z"}),
			1, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	res := booking.Result{
		Intent:      intent.KindBooking,
		Disposition: booking.DispositionBooked,
		Replied:     true,
		Outcome: booking.Outcome{
			Booked: []schedule.Slot{{Start: start, End: start.Add(time.Hour)}},
			Failed: []intent.SlotRequest{{Day: "Monday", Time: "11:00 AM"}},
		},
	}
	err = store.RecordMessage(context.Background(), mailroom.InboundMessage{
		ID: "msg-2", From: "pat@example.com", FromName: "Pat", Subject: "Booking", ReceivedAt: start,
	}, res)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
