// Package mailroom moves inbound email through the system: it models the
// message, queues it (in memory or on SQS), and runs the consumer loop that
// hands each message to the booking engine exactly once, strictly one at a
// time.
package mailroom

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Attachment is one file attached to an inbound email, typically a referral
// document. Data travels base64-encoded inside queue payloads.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// InboundMessage is one email received by the clinic's scheduling inbox. ID
// is the provider's message ID when the provider supplied one, otherwise a
// generated UUID.
type InboundMessage struct {
	ID          string       `json:"id"`
	From        string       `json:"from"`
	FromName    string       `json:"from_name,omitempty"`
	Subject     string       `json:"subject"`
	Body        string       `json:"body"`
	HTMLBody    string       `json:"html_body,omitempty"`
	InReplyTo   string       `json:"in_reply_to,omitempty"`
	ReceivedAt  time.Time    `json:"received_at"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Normalize fills the fields handlers are allowed to omit: a missing ID gets
// a UUID, an empty plain-text body is extracted from the HTML body, and a
// zero ReceivedAt becomes now.
func (m *InboundMessage) Normalize() {
	if strings.TrimSpace(m.ID) == "" {
		m.ID = uuid.NewString()
	}
	if strings.TrimSpace(m.Body) == "" && m.HTMLBody != "" {
		m.Body = HTMLToText(m.HTMLBody)
	}
	if m.ReceivedAt.IsZero() {
		m.ReceivedAt = time.Now().UTC()
	}
}
