// Package mailqueue implements the process-wide outbound mail queue. All
// token-delivery and transactional mail goes through a single consumer
// loop that drains at a fixed cadence, so bulk organizer actions never
// exceed the mail provider's send ceiling no matter how many handlers
// enqueue concurrently.
package mailqueue

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jurylink/jurylink/internal/mailer"
	"github.com/jurylink/jurylink/internal/metrics"
)

// Priority orders items across tiers; within a tier the queue is FIFO.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// tierRank maps priorities to their drain order. Lower drains first.
func tierRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityNormal:
		return 1
	default:
		return 2
	}
}

// ParsePriority maps a request string to a Priority, defaulting to normal.
func ParsePriority(s string) Priority {
	switch Priority(s) {
	case PriorityHigh, PriorityNormal, PriorityLow:
		return Priority(s)
	default:
		return PriorityNormal
	}
}

const (
	// DefaultInterval is the fixed inter-item delay. The delay, not a
	// token bucket, is the rate-limit mechanism: ~600ms keeps the queue
	// under two sends per second.
	DefaultInterval = 600 * time.Millisecond

	// DefaultMaxRetries bounds requeues per item. An item is attempted at
	// most DefaultMaxRetries+1 times in total.
	DefaultMaxRetries = 2

	defaultSendTimeout = 30 * time.Second
)

// Transport delivers a single message. The queue treats a nil transport
// as a permanent condition and fails queued items instead of retrying.
type Transport interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// Callback receives an item's terminal outcome. It is invoked exactly
// once per enqueued item, with err nil on success. Callbacks run on the
// consumer goroutine and must not block.
type Callback func(itemID string, err error)

// item is a queued dispatch. Mutated only under the queue mutex.
type item struct {
	id       string
	msg      mailer.Message
	priority Priority
	retries  int
	batchID  string
	done     Callback
}

// Stats is a point-in-time snapshot of queue activity.
type Stats struct {
	Pending     int   `json:"pending"`
	Processing  int   `json:"processing"`
	TotalSent   int64 `json:"totalSent"`
	TotalFailed int64 `json:"totalFailed"`
}

// Queue is the single-consumer dispatch queue. Safe for concurrent use
// by many producers; at most one drain loop runs at any time.
type Queue struct {
	mu         sync.Mutex
	items      []*item
	draining   bool
	processing bool

	totalSent   int64
	totalFailed int64
	batches     map[string]*batch

	transport   Transport
	interval    time.Duration
	maxRetries  int
	sendTimeout time.Duration
	logger      *slog.Logger
}

// Option configures a Queue.
type Option func(*Queue)

// WithInterval overrides the fixed inter-item delay.
func WithInterval(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.interval = d
		}
	}
}

// WithMaxRetries overrides the per-item retry budget.
func WithMaxRetries(n int) Option {
	return func(q *Queue) {
		if n >= 0 {
			q.maxRetries = n
		}
	}
}

// WithLogger sets the queue logger.
func WithLogger(logger *slog.Logger) Option {
	return func(q *Queue) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// New creates a dispatch queue. transport may be nil when no mail
// provider is configured; items then resolve as failed on drain.
func New(transport Transport, opts ...Option) *Queue {
	q := &Queue{
		transport:   transport,
		interval:    DefaultInterval,
		maxRetries:  DefaultMaxRetries,
		sendTimeout: defaultSendTimeout,
		batches:     make(map[string]*batch),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue inserts a message into its priority tier and returns the item
// id. done may be nil. Enqueuing into an idle queue starts the drain
// loop; enqueuing into an active one never starts a second consumer.
func (q *Queue) Enqueue(msg mailer.Message, priority Priority, batchID string, done Callback) string {
	it := &item{
		id:       uuid.NewString(),
		msg:      msg,
		priority: priority,
		batchID:  batchID,
		done:     done,
	}

	q.mu.Lock()
	q.insertLocked(it)
	q.updateDepthLocked()
	start := !q.draining
	if start {
		q.draining = true
	}
	q.mu.Unlock()

	if start {
		go q.drain()
	}
	return it.id
}

// insertLocked splices the item in immediately before the first item of
// a lower tier: high jumps queued normal/low work but queues behind
// other high items, normal goes before low, low appends at the tail.
func (q *Queue) insertLocked(it *item) {
	rank := tierRank(it.priority)
	for i, existing := range q.items {
		if tierRank(existing.priority) > rank {
			q.items = append(q.items, nil)
			copy(q.items[i+1:], q.items[i:])
			q.items[i] = it
			return
		}
	}
	q.items = append(q.items, it)
}

// drain is the single consumer loop. It processes one item at a time and
// sleeps the fixed interval after every attempt, then exits once the
// queue is empty.
func (q *Queue) drain() {
	for {
		q.mu.Lock()
		if len(q.items) == 0 {
			q.draining = false
			q.updateDepthLocked()
			q.mu.Unlock()
			return
		}

		if q.transport == nil {
			// No provider configured: a permanent condition, not a
			// transient one. Fail everything queued instead of spinning.
			failed := q.items
			q.items = nil
			q.draining = false
			for _, it := range failed {
				q.totalFailed++
				q.resolveBatchLocked(it.batchID, false)
				metrics.RecordMailOutcome("failed")
			}
			q.updateDepthLocked()
			q.mu.Unlock()
			for _, it := range failed {
				q.logger.Warn("mail dropped: no transport configured", "item_id", it.id, "to", it.msg.To)
				if it.done != nil {
					it.done(it.id, ErrNoTransport)
				}
			}
			return
		}

		it := q.items[0]
		q.items = q.items[1:]
		q.processing = true
		q.markBatchProcessingLocked(it.batchID)
		q.updateDepthLocked()
		q.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), q.sendTimeout)
		err := q.transport.Send(ctx, it.msg)
		cancel()

		q.mu.Lock()
		q.processing = false
		switch {
		case err == nil:
			q.totalSent++
			q.resolveBatchLocked(it.batchID, true)
			metrics.RecordMailOutcome("sent")
			q.mu.Unlock()
			if it.done != nil {
				it.done(it.id, nil)
			}
		case it.retries < q.maxRetries:
			// Demote to low and re-append: a failing recipient drains
			// after all current work and never starves fresh traffic.
			it.retries++
			it.priority = PriorityLow
			q.items = append(q.items, it)
			q.updateDepthLocked()
			metrics.RecordMailRetry()
			q.mu.Unlock()
			q.logger.Warn("mail send failed, requeued",
				"item_id", it.id, "to", it.msg.To, "retries", it.retries, "error", err)
		default:
			q.totalFailed++
			q.resolveBatchLocked(it.batchID, false)
			metrics.RecordMailOutcome("failed")
			q.mu.Unlock()
			q.logger.Error("mail send failed permanently",
				"item_id", it.id, "to", it.msg.To, "retries", it.retries, "error", err)
			if it.done != nil {
				it.done(it.id, err)
			}
		}

		time.Sleep(q.interval)
	}
}

// Stats returns a snapshot of queue counters.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	s := Stats{
		Pending:     len(q.items),
		TotalSent:   q.totalSent,
		TotalFailed: q.totalFailed,
	}
	if q.processing {
		s.Processing = 1
	}
	return s
}

// updateDepthLocked refreshes the per-tier depth gauges.
func (q *Queue) updateDepthLocked() {
	var high, normal, low float64
	for _, it := range q.items {
		switch it.priority {
		case PriorityHigh:
			high++
		case PriorityNormal:
			normal++
		default:
			low++
		}
	}
	metrics.SetMailQueueDepth(string(PriorityHigh), high)
	metrics.SetMailQueueDepth(string(PriorityNormal), normal)
	metrics.SetMailQueueDepth(string(PriorityLow), low)
}
