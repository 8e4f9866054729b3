package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertScore records a judge's score for a submission. The
// (judge, submission) pair is unique: an existing row is updated in place
// with a refreshed scored_at, otherwise a new row is inserted. The
// operation is idempotent - re-submitting the same score produces the
// same persisted state.
func (s *SQLiteStorage) UpsertScore(ctx context.Context, judgeID, submissionID int64, score float64, notes string, now time.Time) (*Score, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (judge_id, submission_id, score, notes, scored_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (judge_id, submission_id) DO UPDATE SET
			score = excluded.score,
			notes = excluded.notes,
			scored_at = excluded.scored_at`,
		judgeID, submissionID, score, notes, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to upsert score: %w", err)
	}

	return s.GetScore(ctx, judgeID, submissionID)
}

// GetScore retrieves one judge's score for one submission.
// Returns ErrNotFound if the judge has not scored the submission.
func (s *SQLiteStorage) GetScore(ctx context.Context, judgeID, submissionID int64) (*Score, error) {
	var sc Score

	err := s.db.QueryRowContext(ctx,
		`SELECT id, judge_id, submission_id, score, notes, scored_at
		 FROM scores WHERE judge_id = ? AND submission_id = ?`,
		judgeID, submissionID).
		Scan(&sc.ID, &sc.JudgeID, &sc.SubmissionID, &sc.Score, &sc.Notes, &sc.ScoredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get score: %w", err)
	}

	return &sc, nil
}

// CountScores returns the number of score rows for a submission.
func (s *SQLiteStorage) CountScores(ctx context.Context, submissionID int64) (int, error) {
	var count int

	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM scores WHERE submission_id = ?",
		submissionID).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count scores: %w", err)
	}

	return count, nil
}
