package mailroom

import "time"

const (
	// One consumer goroutine by default: processing messages strictly one at
	// a time is what keeps two emails from claiming the same slot, so raising
	// this is only safe because the booking engine also serializes itself.
	defaultConsumerCount = 1
	defaultWaitSeconds   = 2
	defaultBatchSize     = 5
	maxWaitSeconds       = 20 // SQS limit
	maxBatchSize         = 10 // SQS limit
	deleteTimeout        = 5 * time.Second
)

type consumerConfig struct {
	workers          int
	receiveWaitSecs  int
	receiveBatchSize int
}

func defaultConsumerConfig() consumerConfig {
	return consumerConfig{
		workers:          defaultConsumerCount,
		receiveWaitSecs:  defaultWaitSeconds,
		receiveBatchSize: defaultBatchSize,
	}
}

// ConsumerOption tunes how the Dispatcher and Worker poll the queue.
type ConsumerOption func(*consumerConfig)

// WithConsumerCount sets the number of concurrent consumer goroutines.
func WithConsumerCount(count int) ConsumerOption {
	return func(cfg *consumerConfig) {
		if count > 0 {
			cfg.workers = count
		}
	}
}

// WithReceiveWaitSeconds sets the long-poll wait time for receive calls.
func WithReceiveWaitSeconds(seconds int) ConsumerOption {
	return func(cfg *consumerConfig) {
		if seconds < 0 {
			return
		}
		if seconds > maxWaitSeconds {
			seconds = maxWaitSeconds
		}
		cfg.receiveWaitSecs = seconds
	}
}

// WithReceiveBatchSize sets how many messages each poll should return.
func WithReceiveBatchSize(size int) ConsumerOption {
	return func(cfg *consumerConfig) {
		if size <= 0 {
			return
		}
		if size > maxBatchSize {
			size = maxBatchSize
		}
		cfg.receiveBatchSize = size
	}
}
