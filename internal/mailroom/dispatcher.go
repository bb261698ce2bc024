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

// Handler processes one inbound email end to end. booking.Orchestrator is the
// production implementation.
type Handler interface {
	HandleMessage(ctx context.Context, msg booking.Inbound) booking.Result
}

// ErrDispatcherClosed indicates the dispatcher is no longer accepting work.
var ErrDispatcherClosed = errors.New("mailroom: dispatcher closed")

// Dispatcher routes messages through the queue and blocks the caller until
// the handler finishes, so webhook handlers in the single-binary mode can
// answer with the actual outcome. It runs its own consumer goroutines; do not
// point a Dispatcher and a Worker at the same queue, or they will steal each
// other's messages.
type Dispatcher struct {
	handler Handler
	queue   queueClient
	logger  *logging.Logger

	cfg consumerConfig

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	pending sync.Map // jobID -> chan booking.Result
}

// NewDispatcher wires a queue-backed dispatcher around the supplied handler.
func NewDispatcher(handler Handler, queue queueClient, logger *logging.Logger, opts ...ConsumerOption) *Dispatcher {
	if handler == nil {
		panic("mailroom: handler cannot be nil")
	}
	if queue == nil {
		panic("mailroom: queue cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}

	cfg := defaultConsumerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		handler: handler,
		queue:   queue,
		logger:  logger.WithComponent("mailroom.dispatcher"),
		cfg:     cfg,
		ctx:     ctx,
		cancel:  cancel,
	}

	for i := 0; i < cfg.workers; i++ {
		d.wg.Add(1)
		go d.runConsumer(i + 1)
	}

	return d
}

// Process enqueues the message and blocks until the handler completes or ctx
// is done.
func (d *Dispatcher) Process(ctx context.Context, msg InboundMessage) (booking.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	payload, body, err := encodePayload(queuePayload{Kind: jobTypeInboundEmail, Message: msg})
	if err != nil {
		return booking.Result{}, err
	}

	resultCh := make(chan booking.Result, 1)
	d.pending.Store(payload.ID, resultCh)
	defer d.pending.Delete(payload.ID)

	if err := d.queue.Send(ctx, body); err != nil {
		return booking.Result{}, err
	}

	select {
	case <-ctx.Done():
		return booking.Result{}, ctx.Err()
	case <-d.ctx.Done():
		return booking.Result{}, ErrDispatcherClosed
	case res := <-resultCh:
		return res, nil
	}
}

// Shutdown stops consumer goroutines and unblocks any pending callers.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.cancel()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (d *Dispatcher) runConsumer(id int) {
	defer d.wg.Done()
	d.logger.Debug("dispatcher consumer started", "consumer_id", id)

	backoff := time.Second

	for {
		select {
		case <-d.ctx.Done():
			d.logger.Debug("dispatcher consumer stopping", "consumer_id", id)
			return
		default:
		}

		messages, err := d.queue.Receive(d.ctx, d.cfg.receiveBatchSize, d.cfg.receiveWaitSecs)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			d.logger.Error("failed to receive messages", "error", err, "consumer_id", id)
			time.Sleep(backoff)
			if backoff < 5*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		for _, msg := range messages {
			d.consume(msg)
		}
	}
}

func (d *Dispatcher) consume(msg queueMessage) {
	defer d.deleteMessage(msg.ReceiptHandle)

	var payload queuePayload
	if err := json.Unmarshal([]byte(msg.Body), &payload); err != nil {
		d.logger.Error("failed to decode queued message", "error", err)
		return
	}

	m := payload.Message
	m.Normalize()
	res := d.handler.HandleMessage(d.ctx, booking.Inbound{
		MessageID: m.ID,
		From:      m.From,
		FromName:  m.FromName,
		Subject:   m.Subject,
		Body:      m.Body,
	})

	value, ok := d.pending.Load(payload.ID)
	if !ok {
		d.logger.Debug("no waiting caller for message", "job_id", payload.ID)
		return
	}
	if ch, ok := value.(chan booking.Result); ok {
		select {
		case ch <- res:
		default:
		}
	}
}

func (d *Dispatcher) deleteMessage(receiptHandle string) {
	ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
	defer cancel()
	if err := d.queue.Delete(ctx, receiptHandle); err != nil {
		d.logger.Error("failed to delete queued message", "error", err)
	}
}
