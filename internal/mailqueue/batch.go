package mailqueue

import (
	"errors"

	"github.com/google/uuid"
)

// ErrNoTransport resolves items dropped because no mail provider is
// configured.
var ErrNoTransport = errors.New("mailqueue: no mail transport configured")

// BatchStatus tracks a batch through its lifecycle:
// queued -> processing -> completed|failed.
type BatchStatus string

const (
	BatchQueued     BatchStatus = "queued"
	BatchProcessing BatchStatus = "processing"
	BatchCompleted  BatchStatus = "completed"
	BatchFailed     BatchStatus = "failed"
)

// batch is the internal aggregate. Mutated only under the queue mutex.
type batch struct {
	id     string
	total  int
	sent   int
	failed int
	status BatchStatus
}

// BatchProgress is the externally visible batch snapshot.
type BatchProgress struct {
	ID      string      `json:"id"`
	Total   int         `json:"total"`
	Sent    int         `json:"sent"`
	Failed  int         `json:"failed"`
	Pending int         `json:"pending"`
	Status  BatchStatus `json:"status"`
}

// CreateBatch registers a progress tracker for total member items and
// returns its id. Pass an empty id to have one generated.
func (q *Queue) CreateBatch(id string, total int) string {
	if id == "" {
		id = uuid.NewString()
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.batches[id] = &batch{id: id, total: total, status: BatchQueued}
	return id
}

// BatchProgress returns the snapshot for a batch, or false if unknown.
func (q *Queue) BatchProgress(id string) (BatchProgress, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	b, ok := q.batches[id]
	if !ok {
		return BatchProgress{}, false
	}
	return BatchProgress{
		ID:      b.id,
		Total:   b.total,
		Sent:    b.sent,
		Failed:  b.failed,
		Pending: b.total - b.sent - b.failed,
		Status:  b.status,
	}, true
}

func (q *Queue) markBatchProcessingLocked(id string) {
	if b, ok := q.batches[id]; ok && b.status == BatchQueued {
		b.status = BatchProcessing
	}
}

// resolveBatchLocked records one member item's terminal outcome. Counters
// are updated synchronously with the resolution, and sent+failed never
// exceeds total.
func (q *Queue) resolveBatchLocked(id string, sent bool) {
	b, ok := q.batches[id]
	if !ok || b.sent+b.failed >= b.total {
		return
	}
	if sent {
		b.sent++
	} else {
		b.failed++
	}
	if b.sent+b.failed == b.total {
		if b.failed == b.total {
			b.status = BatchFailed
		} else {
			b.status = BatchCompleted
		}
	}
}
