package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetSubmission retrieves a submission by ID.
// The scoring endpoints use this to verify scope before every write.
// Returns ErrNotFound if the submission doesn't exist.
func (s *SQLiteStorage) GetSubmission(ctx context.Context, id int64) (*Submission, error) {
	var sub Submission

	err := s.db.QueryRowContext(ctx,
		`SELECT id, hackathon_id, team_name, project_name, contact_email, submitted_at
		 FROM submissions WHERE id = ?`,
		id).
		Scan(&sub.ID, &sub.HackathonID, &sub.TeamName, &sub.ProjectName, &sub.ContactEmail, &sub.SubmittedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return &sub, nil
}

// ListSubmissionsWithScores returns all submissions of a hackathon, each
// joined with the given judge's own score if one exists. Other judges'
// scores never appear in the result.
func (s *SQLiteStorage) ListSubmissionsWithScores(ctx context.Context, hackathonID, judgeID int64) ([]*SubmissionWithScore, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sub.id, sub.hackathon_id, sub.team_name, sub.project_name, sub.contact_email, sub.submitted_at,
			sc.id, sc.judge_id, sc.submission_id, sc.score, sc.notes, sc.scored_at
		 FROM submissions sub
		 LEFT JOIN scores sc ON sc.submission_id = sub.id AND sc.judge_id = ?
		 WHERE sub.hackathon_id = ?
		 ORDER BY sub.id ASC`,
		judgeID, hackathonID)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var result []*SubmissionWithScore

	for rows.Next() {
		var item SubmissionWithScore
		var scoreID, scoreJudgeID, scoreSubmissionID sql.NullInt64
		var scoreValue sql.NullFloat64
		var scoreNotes sql.NullString
		var scoredAt sql.NullTime

		err := rows.Scan(&item.ID, &item.HackathonID, &item.TeamName, &item.ProjectName,
			&item.ContactEmail, &item.SubmittedAt,
			&scoreID, &scoreJudgeID, &scoreSubmissionID, &scoreValue, &scoreNotes, &scoredAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission row: %w", err)
		}

		if scoreID.Valid {
			item.MyScore = &Score{
				ID:           scoreID.Int64,
				JudgeID:      scoreJudgeID.Int64,
				SubmissionID: scoreSubmissionID.Int64,
				Score:        scoreValue.Float64,
				Notes:        scoreNotes.String,
				ScoredAt:     scoredAt.Time,
			}
		}

		result = append(result, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submissions: %w", err)
	}

	// Return empty slice instead of nil
	if result == nil {
		result = []*SubmissionWithScore{}
	}

	return result, nil
}

// CreateSubmission inserts a submission for a hackathon.
// Returns the new submission ID.
func (s *SQLiteStorage) CreateSubmission(ctx context.Context, hackathonID int64, teamName, projectName, contactEmail string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO submissions (hackathon_id, team_name, project_name, contact_email) VALUES (?, ?, ?, ?)",
		hackathonID, teamName, projectName, contactEmail)
	if err != nil {
		return 0, fmt.Errorf("failed to create submission: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get insert ID: %w", err)
	}

	return id, nil
}
