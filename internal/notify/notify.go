// Package notify adapts the dispatch queue to the notification hooks the
// rest of the service calls.
package notify

import (
	"github.com/jurylink/jurylink/internal/mailer"
	"github.com/jurylink/jurylink/internal/mailqueue"
	"github.com/jurylink/jurylink/internal/storage"
)

// FeedbackNotifier enqueues score-feedback mail for submission contacts.
// It satisfies the scoring service's Notifier interface.
type FeedbackNotifier struct {
	queue *mailqueue.Queue
	from  string
}

// NewFeedbackNotifier creates a feedback notifier sending from the given
// address.
func NewFeedbackNotifier(queue *mailqueue.Queue, from string) *FeedbackNotifier {
	return &FeedbackNotifier{queue: queue, from: from}
}

// ScoreRecorded enqueues a feedback mail at low priority. Feedback never
// delays token delivery, and enqueue itself never blocks, so this is
// safe to call on the request path.
func (n *FeedbackNotifier) ScoreRecorded(submission *storage.Submission, score float64, notes string) {
	msg := mailer.ScoreFeedback(n.from, submission.ContactEmail,
		submission.TeamName, submission.ProjectName, score, notes)
	n.queue.Enqueue(msg, mailqueue.PriorityLow, "", nil)
}
