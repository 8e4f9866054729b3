// Package scoring implements the scope-enforced scoring operations that
// run behind the capability gate.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jurylink/jurylink/internal/storage"
)

// Errors for scoring operations.
var (
	// ErrInvalidScore indicates the value lies outside the entry point's
	// declared range.
	ErrInvalidScore = errors.New("scoring: score out of range")
	// ErrForbidden indicates a scope mismatch: the submission belongs to
	// a different hackathon than the one the caller is authorized for.
	ErrForbidden = errors.New("scoring: submission outside authorized scope")
)

// Range is an inclusive numeric score domain. The token-judging flow and
// the authenticated organizer review flow use different ranges; the
// domain is an explicit parameter rather than a hidden literal so the
// divergence stays visible.
type Range struct {
	Min float64
	Max float64
}

var (
	// JudgeRange is the 0-10 domain used by the tokenized judge flow.
	JudgeRange = Range{Min: 0, Max: 10}
	// ReviewRange is the 0-100 domain used by the authenticated
	// organizer review flow.
	ReviewRange = Range{Min: 0, Max: 100}
)

// Contains reports whether v lies in the range (inclusive on both ends).
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Storage is the slice of the access store the scoring service consumes.
type Storage interface {
	GetSubmission(ctx context.Context, id int64) (*storage.Submission, error)
	ListSubmissionsWithScores(ctx context.Context, hackathonID, judgeID int64) ([]*storage.SubmissionWithScore, error)
	UpsertScore(ctx context.Context, judgeID, submissionID int64, score float64, notes string, now time.Time) (*storage.Score, error)
}

// Notifier receives best-effort feedback notifications after a score is
// recorded. Implementations must be non-blocking; failures never affect
// the score write.
type Notifier interface {
	ScoreRecorded(submission *storage.Submission, score float64, notes string)
}

// Service executes scoring operations within a verified scope.
type Service struct {
	storage  Storage
	notifier Notifier
	logger   *slog.Logger
}

// NewService creates a scoring service. notifier may be nil.
func NewService(s Storage, notifier Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{storage: s, notifier: notifier, logger: logger}
}

// ListSubmissions returns the submissions of the authorized hackathon,
// each joined with the judge's own prior score. The store query is
// already filtered to the scope, so the result is exactly the set of
// submissions with a matching hackathon - no more, no fewer.
func (s *Service) ListSubmissions(ctx context.Context, judgeID, hackathonID int64) ([]*storage.SubmissionWithScore, error) {
	return s.storage.ListSubmissionsWithScores(ctx, hackathonID, judgeID)
}

// UpsertScore validates and records a score within the authorized scope.
//
// The scope check runs on every write, not only at list time: the
// token's scope is the only authorization boundary, there is no session
// to re-derive it from. A submission in another hackathon is rejected
// with ErrForbidden even when it exists and the score is otherwise
// valid.
func (s *Service) UpsertScore(ctx context.Context, judgeID, hackathonID, submissionID int64, score float64, notes string, domain Range) (*storage.Score, error) {
	if !domain.Contains(score) {
		return nil, fmt.Errorf("%w: %v not in [%v, %v]", ErrInvalidScore, score, domain.Min, domain.Max)
	}

	submission, err := s.storage.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	if submission.HackathonID != hackathonID {
		// Either a stale/forged submission id or a misrouted token;
		// security-relevant, so it is logged loudly.
		s.logger.Warn("score write rejected: scope mismatch",
			"judge_id", judgeID,
			"submission_id", submissionID,
			"submission_hackathon", submission.HackathonID,
			"authorized_hackathon", hackathonID)
		return nil, ErrForbidden
	}

	recorded, err := s.storage.UpsertScore(ctx, judgeID, submissionID, score, notes, time.Now())
	if err != nil {
		return nil, err
	}

	// Feedback mail is fire-and-forget: dispatched after the write is
	// durable and never awaited on the request's critical path.
	if s.notifier != nil && submission.ContactEmail != "" {
		s.notifier.ScoreRecorded(submission, score, notes)
	}

	return recorded, nil
}
