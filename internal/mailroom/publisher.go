package mailroom

import (
	"context"
	"fmt"

	"github.com/oakfield-labs/clinic-scheduler/pkg/logging"
)

// Publisher enqueues inbound messages for asynchronous processing by a
// Worker, usually in another process.
type Publisher struct {
	queue  queueClient
	logger *logging.Logger
}

// NewPublisher creates a queue-backed publisher.
func NewPublisher(queue queueClient, logger *logging.Logger) *Publisher {
	if queue == nil {
		panic("mailroom: queue cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Publisher{
		queue:  queue,
		logger: logger,
	}
}

// EnqueueInbound publishes one inbound email under the given job ID. The job
// ID keys status lookups in the job store; pass the empty string to have one
// generated.
func (p *Publisher) EnqueueInbound(ctx context.Context, jobID string, msg InboundMessage, opts ...PublishOption) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	payload := queuePayload{
		ID:          jobID,
		Kind:        jobTypeInboundEmail,
		Message:     msg,
		TrackStatus: true,
	}
	for _, opt := range opts {
		opt(&payload)
	}

	payload, body, err := encodePayload(payload)
	if err != nil {
		return "", err
	}

	if err := p.queue.Send(ctx, body); err != nil {
		return "", fmt.Errorf("mailroom: failed to enqueue message: %w", err)
	}

	p.logger.Debug("inbound message enqueued", "job_id", payload.ID, "message_id", msg.ID)
	return payload.ID, nil
}
