// Package handlers holds the HTTP surface: the inbound-email webhook the
// mail provider posts to, and the admin endpoints behind JWT auth.
package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oakfield-labs/clinic-scheduler/internal/booking"
	"github.com/oakfield-labs/clinic-scheduler/internal/mailroom"
	"github.com/oakfield-labs/clinic-scheduler/pkg/logging"
)

// inboundEmailPayload is the provider-neutral webhook body. Attachment
// content arrives base64-encoded.
type inboundEmailPayload struct {
	MessageID   string              `json:"message_id"`
	From        string              `json:"from"`
	FromName    string              `json:"from_name"`
	Subject     string              `json:"subject"`
	TextBody    string              `json:"text_body"`
	HTMLBody    string              `json:"html_body"`
	InReplyTo   string              `json:"in_reply_to"`
	Attachments []inboundAttachment `json:"attachments"`
}

type inboundAttachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
}

// InboundEmailHandler accepts inbound-email webhooks. With a dispatcher wired
// (single-binary mode) the message is handled synchronously and the response
// carries the outcome; otherwise it is enqueued and the response carries a
// job ID the caller can poll.
type InboundEmailHandler struct {
	dispatcher *mailroom.Dispatcher
	publisher  *mailroom.Publisher
	jobs       mailroom.JobRecorder
	logger     *logging.Logger
}

func NewInboundEmailHandler(dispatcher *mailroom.Dispatcher, publisher *mailroom.Publisher, jobs mailroom.JobRecorder, logger *logging.Logger) *InboundEmailHandler {
	if dispatcher == nil && publisher == nil {
		panic("handlers: either a dispatcher or a publisher is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &InboundEmailHandler{dispatcher: dispatcher, publisher: publisher, jobs: jobs, logger: logger}
}

// Handle processes POST /webhooks/inbound-email.
func (h *InboundEmailHandler) Handle(w http.ResponseWriter, r *http.Request) {
	msg, ok := h.decodeMessage(w, r)
	if !ok {
		return
	}
	h.process(r.Context(), w, msg)
}

// Simulate processes POST /admin/messages/simulate with the same body and
// semantics as the webhook, so operators can exercise the engine end to end.
func (h *InboundEmailHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	msg, ok := h.decodeMessage(w, r)
	if !ok {
		return
	}
	h.process(r.Context(), w, msg)
}

func (h *InboundEmailHandler) decodeMessage(w http.ResponseWriter, r *http.Request) (mailroom.InboundMessage, bool) {
	var payload inboundEmailPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return mailroom.InboundMessage{}, false
	}
	if strings.TrimSpace(payload.From) == "" {
		http.Error(w, "from address is required", http.StatusBadRequest)
		return mailroom.InboundMessage{}, false
	}

	msg := mailroom.InboundMessage{
		ID:         payload.MessageID,
		From:       payload.From,
		FromName:   payload.FromName,
		Subject:    payload.Subject,
		Body:       payload.TextBody,
		HTMLBody:   payload.HTMLBody,
		InReplyTo:  payload.InReplyTo,
		ReceivedAt: time.Now().UTC(),
	}
	for _, att := range payload.Attachments {
		data, err := base64.StdEncoding.DecodeString(att.Content)
		if err != nil {
			h.logger.Warn("dropping attachment with invalid base64 content", "filename", att.Filename)
			continue
		}
		msg.Attachments = append(msg.Attachments, mailroom.Attachment{
			Filename:    att.Filename,
			ContentType: att.ContentType,
			Data:        data,
		})
	}
	msg.Normalize()
	return msg, true
}

func (h *InboundEmailHandler) process(ctx context.Context, w http.ResponseWriter, msg mailroom.InboundMessage) {
	if h.dispatcher != nil {
		res, err := h.dispatcher.Process(ctx, msg)
		if err != nil {
			h.logger.Error("synchronous message handling failed", "message_id", msg.ID, "error", err)
			http.Error(w, "failed to process message", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message_id":  msg.ID,
			"disposition": res.Disposition,
			"booked":      bookedLabels(res),
			"replied":     res.Replied,
		})
		return
	}

	jobID := uuid.NewString()
	if h.jobs != nil {
		err := h.jobs.PutPending(ctx, &mailroom.JobRecord{
			JobID:     jobID,
			MessageID: msg.ID,
			Sender:    msg.From,
			Subject:   msg.Subject,
		})
		if err != nil {
			h.logger.Warn("failed to persist pending job", "job_id", jobID, "error", err)
		}
	}

	if _, err := h.publisher.EnqueueInbound(ctx, jobID, msg); err != nil {
		h.logger.Error("failed to enqueue inbound message", "message_id", msg.ID, "error", err)
		http.Error(w, "failed to accept message", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"message_id": msg.ID,
		"job_id":     jobID,
		"status":     string(mailroom.JobStatusPending),
	})
}

func bookedLabels(res booking.Result) []string {
	labels := make([]string, 0, len(res.Outcome.Booked))
	for _, slot := range res.Outcome.Booked {
		labels = append(labels, slot.Label)
	}
	return labels
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
