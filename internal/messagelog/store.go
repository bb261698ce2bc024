// Package messagelog persists per-message metadata: who wrote, what they
// asked for, and how the engine disposed of it. The log backs the admin
// message listing; it is bookkeeping, not booking state. The calendar stays
// the only source of truth for appointments.
package messagelog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/oakfield-labs/clinic-scheduler/internal/booking"
	"github.com/oakfield-labs/clinic-scheduler/internal/mailroom"
)

// Record is one processed inbound message.
type Record struct {
	ID             string    `json:"id"`
	MessageID      string    `json:"message_id"`
	Sender         string    `json:"sender"`
	SenderName     string    `json:"sender_name,omitempty"`
	Subject        string    `json:"subject"`
	Intent         string    `json:"intent,omitempty"`
	Disposition    string    `json:"disposition"`
	RequestedSlots []string  `json:"requested_slots"`
	BookedStarts   []string  `json:"booked_starts"`
	FailedCount    int       `json:"failed_count"`
	Replied        bool      `json:"replied"`
	ReceivedAt     time.Time `json:"received_at"`
	ProcessedAt    time.Time `json:"processed_at"`
}

// Store writes and lists records over a plain database/sql connection.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	if db == nil {
		panic("messagelog: db required")
	}
	return &Store{db: db}
}

// Insert writes one record. A missing ID or ProcessedAt is filled in.
func (s *Store) Insert(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.ProcessedAt.IsZero() {
		rec.ProcessedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO message_log (id, message_id, sender, sender_name, subject, intent, disposition,
		    requested_slots, booked_starts, failed_count, replied, received_at, processed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		rec.ID, rec.MessageID, rec.Sender, rec.SenderName, rec.Subject, rec.Intent, rec.Disposition,
		pq.Array(rec.RequestedSlots), pq.Array(rec.BookedStarts), rec.FailedCount, rec.Replied,
		rec.ReceivedAt, rec.ProcessedAt)
	if err != nil {
		return fmt.Errorf("messagelog: insert: %w", err)
	}
	return nil
}

// Recent lists the latest records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, message_id, sender, sender_name, subject, intent, disposition,
		       requested_slots, booked_starts, failed_count, replied, received_at, processed_at
		FROM message_log ORDER BY processed_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("messagelog: list: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.MessageID, &rec.Sender, &rec.SenderName, &rec.Subject,
			&rec.Intent, &rec.Disposition, pq.Array(&rec.RequestedSlots), pq.Array(&rec.BookedStarts),
			&rec.FailedCount, &rec.Replied, &rec.ReceivedAt, &rec.ProcessedAt); err != nil {
			return nil, fmt.Errorf("messagelog: scan: %w", err)
		}
		if rec.RequestedSlots == nil {
			rec.RequestedSlots = []string{}
		}
		if rec.BookedStarts == nil {
			rec.BookedStarts = []string{}
		}
		out = append(out, rec)
	}
	if out == nil {
		out = []Record{}
	}
	return out, rows.Err()
}

// RecordMessage adapts an engine result into a Record. It satisfies
// mailroom.MessageRecorder.
func (s *Store) RecordMessage(ctx context.Context, msg mailroom.InboundMessage, res booking.Result) error {
	rec := Record{
		MessageID:   msg.ID,
		Sender:      msg.From,
		SenderName:  msg.FromName,
		Subject:     msg.Subject,
		Disposition: res.Disposition,
		FailedCount: len(res.Outcome.Failed),
		Replied:     res.Replied,
		ReceivedAt:  msg.ReceivedAt,
	}
	if res.Intent != 0 {
		rec.Intent = res.Intent.String()
	}
	for _, req := range res.Outcome.Failed {
		rec.RequestedSlots = append(rec.RequestedSlots, fmt.Sprintf("%s %s", req.Day, req.Time))
	}
	for _, slot := range res.Outcome.Booked {
		rec.BookedStarts = append(rec.BookedStarts, slot.Start.Format(time.RFC3339))
	}
	return s.Insert(ctx, rec)
}
