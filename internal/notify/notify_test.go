package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jurylink/jurylink/internal/mailer"
	"github.com/jurylink/jurylink/internal/mailqueue"
	"github.com/jurylink/jurylink/internal/storage"
)

type recordingTransport struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (r *recordingTransport) Send(_ context.Context, msg mailer.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingTransport) messages() []mailer.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]mailer.Message(nil), r.sent...)
}

func TestScoreRecorded_EnqueuesFeedbackMail(t *testing.T) {
	transport := &recordingTransport{}
	queue := mailqueue.New(transport, mailqueue.WithInterval(time.Millisecond))
	notifier := NewFeedbackNotifier(queue, "noreply@example.com")

	notifier.ScoreRecorded(&storage.Submission{
		ID:           1,
		HackathonID:  2,
		TeamName:     "Team",
		ProjectName:  "Proj",
		ContactEmail: "team@example.com",
	}, 7.5, "nice")

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if msgs := transport.messages(); len(msgs) == 1 {
			if msgs[0].To != "team@example.com" || msgs[0].From != "noreply@example.com" {
				t.Errorf("message addressing wrong: %+v", msgs[0])
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("feedback mail never sent")
}
