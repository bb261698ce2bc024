// Package reply sends the engine's outbound mail. Exactly one reply is
// attempted per inbound message; send failures are logged by callers and
// never retried into a second reply.
package reply

import (
	"context"

	"github.com/oakfield-labs/clinic-scheduler/pkg/logging"
)

// Message is one outbound plain-text reply. InReplyTo carries the provider
// message ID of the inbound mail so clients thread the conversation.
type Message struct {
	To        string
	ToName    string
	Subject   string
	Body      string
	InReplyTo string
}

// Sender delivers replies. Implementations can be swapped (SES, SendGrid,
// stub) without changing callers.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// StubSender logs instead of sending. Used in development and tests.
type StubSender struct {
	logger *logging.Logger
}

var _ Sender = (*StubSender)(nil)

// NewStubSender creates a sender that only logs.
func NewStubSender(logger *logging.Logger) *StubSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubSender{logger: logger}
}

// Send logs the reply without delivering it.
func (s *StubSender) Send(ctx context.Context, msg Message) error {
	s.logger.Info("stub sender: would send reply", "to", msg.To, "subject", msg.Subject)
	return nil
}
