package mailroom

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/oakfield-labs/clinic-scheduler/internal/booking"
	"github.com/oakfield-labs/clinic-scheduler/pkg/logging"
)

const dedupProvider = "email"

// DedupStore records message IDs that were already handled, so a redelivered
// queue message never produces a second reply or a second booking.
type DedupStore interface {
	AlreadyProcessed(ctx context.Context, provider, messageID string) (bool, error)
	MarkProcessed(ctx context.Context, provider, messageID string) (bool, error)
}

// ReferralArchiver stores referral documents attached to inbound messages.
type ReferralArchiver interface {
	Enabled() bool
	Archive(ctx context.Context, messageID, filename, contentType string, data []byte) (string, error)
}

// MessageRecorder persists per-message metadata after processing.
type MessageRecorder interface {
	RecordMessage(ctx context.Context, msg InboundMessage, res booking.Result) error
}

// Worker consumes inbound messages from the queue and runs each through the
// booking engine. Dedup, job tracking, referral archiving and message logging
// are all optional; a Worker with none of them wired still replies to every
// message.
type Worker struct {
	handler  Handler
	queue    queueClient
	jobs     JobUpdater
	dedup    DedupStore
	archiver ReferralArchiver
	recorder MessageRecorder
	logger   *logging.Logger

	cfg consumerConfig
	wg  sync.WaitGroup
}

// WorkerOption customizes worker behavior beyond the shared consumer tuning.
type WorkerOption func(*Worker)

// WithJobUpdater wires job status persistence.
func WithJobUpdater(jobs JobUpdater) WorkerOption {
	return func(w *Worker) { w.jobs = jobs }
}

// WithDedupStore wires duplicate-delivery detection.
func WithDedupStore(store DedupStore) WorkerOption {
	return func(w *Worker) { w.dedup = store }
}

// WithReferralArchiver wires attachment archiving.
func WithReferralArchiver(archiver ReferralArchiver) WorkerOption {
	return func(w *Worker) { w.archiver = archiver }
}

// WithMessageRecorder wires the message metadata log.
func WithMessageRecorder(recorder MessageRecorder) WorkerOption {
	return func(w *Worker) { w.recorder = recorder }
}

// WithConsumerTuning applies queue polling options to the worker.
func WithConsumerTuning(opts ...ConsumerOption) WorkerOption {
	return func(w *Worker) {
		for _, opt := range opts {
			opt(&w.cfg)
		}
	}
}

// NewWorker builds a worker around the handler and queue.
func NewWorker(handler Handler, queue queueClient, logger *logging.Logger, opts ...WorkerOption) *Worker {
	if handler == nil {
		panic("mailroom: handler cannot be nil")
	}
	if queue == nil {
		panic("mailroom: queue cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}

	w := &Worker{
		handler: handler,
		queue:   queue,
		logger:  logger.WithComponent("mailroom.worker"),
		cfg:     defaultConsumerConfig(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start launches the consumer goroutines. They stop when ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	for i := 0; i < w.cfg.workers; i++ {
		w.wg.Add(1)
		go w.runConsumer(ctx, i+1)
	}
}

// Wait blocks until every consumer goroutine has drained and returned.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) runConsumer(ctx context.Context, id int) {
	defer w.wg.Done()
	w.logger.Info("mailroom consumer started", "consumer_id", id)

	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("mailroom consumer stopping", "consumer_id", id)
			return
		default:
		}

		messages, err := w.queue.Receive(ctx, w.cfg.receiveBatchSize, w.cfg.receiveWaitSecs)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			w.logger.Error("failed to receive inbound messages", "error", err, "consumer_id", id)
			time.Sleep(backoff)
			if backoff < 5*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		for _, msg := range messages {
			w.processQueueMessage(ctx, msg)
		}
	}
}

func (w *Worker) processQueueMessage(ctx context.Context, msg queueMessage) {
	defer w.deleteMessage(msg.ReceiptHandle)

	var payload queuePayload
	if err := json.Unmarshal([]byte(msg.Body), &payload); err != nil {
		w.logger.Error("failed to decode inbound job", "error", err)
		return
	}
	if payload.Kind != jobTypeInboundEmail {
		w.logger.Error("unknown job type on inbound queue", "kind", string(payload.Kind))
		if payload.TrackStatus {
			w.markFailed(ctx, payload.ID, "unknown job type")
		}
		return
	}

	m := payload.Message
	m.Normalize()

	if w.dedup != nil {
		seen, err := w.dedup.AlreadyProcessed(ctx, dedupProvider, m.ID)
		if err != nil {
			w.logger.Warn("dedup lookup failed, processing anyway", "message_id", m.ID, "error", err)
		} else if seen {
			w.logger.Info("skipping duplicate message delivery", "message_id", m.ID)
			if payload.TrackStatus {
				w.markFailed(ctx, payload.ID, "duplicate delivery")
			}
			return
		}
	}

	w.archiveAttachments(ctx, m)

	res := w.handler.HandleMessage(ctx, booking.Inbound{
		MessageID: m.ID,
		From:      m.From,
		FromName:  m.FromName,
		Subject:   m.Subject,
		Body:      m.Body,
	})

	if w.dedup != nil {
		if _, err := w.dedup.MarkProcessed(ctx, dedupProvider, m.ID); err != nil {
			w.logger.Warn("failed to mark message processed", "message_id", m.ID, "error", err)
		}
	}

	if w.recorder != nil {
		if err := w.recorder.RecordMessage(ctx, m, res); err != nil {
			w.logger.Warn("failed to record message metadata", "message_id", m.ID, "error", err)
		}
	}

	if payload.TrackStatus && w.jobs != nil {
		if err := w.jobs.MarkCompleted(ctx, payload.ID, res); err != nil {
			w.logger.Warn("failed to mark job completed", "job_id", payload.ID, "error", err)
		}
	}

	w.logger.Info("inbound message handled",
		"message_id", m.ID,
		"disposition", res.Disposition,
		"booked", len(res.Outcome.Booked),
		"failed", len(res.Outcome.Failed),
	)
}

func (w *Worker) archiveAttachments(ctx context.Context, m InboundMessage) {
	if w.archiver == nil || !w.archiver.Enabled() {
		return
	}
	for _, att := range m.Attachments {
		key, err := w.archiver.Archive(ctx, m.ID, att.Filename, att.ContentType, att.Data)
		if err != nil {
			w.logger.Warn("failed to archive referral attachment", "message_id", m.ID, "filename", att.Filename, "error", err)
			continue
		}
		w.logger.Info("referral attachment archived", "message_id", m.ID, "key", key)
	}
}

func (w *Worker) markFailed(ctx context.Context, jobID, reason string) {
	if w.jobs == nil {
		return
	}
	if err := w.jobs.MarkFailed(ctx, jobID, reason); err != nil {
		w.logger.Warn("failed to mark job failed", "job_id", jobID, "error", err)
	}
}

func (w *Worker) deleteMessage(receiptHandle string) {
	ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
	defer cancel()
	if err := w.queue.Delete(ctx, receiptHandle); err != nil {
		w.logger.Error("failed to delete inbound message", "error", err)
	}
}
