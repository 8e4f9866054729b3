package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreateHackathon inserts a hackathon and returns its ID.
func (s *SQLiteStorage) CreateHackathon(ctx context.Context, name string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO hackathons (name) VALUES (?)", name)
	if err != nil {
		return 0, fmt.Errorf("failed to create hackathon: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get insert ID: %w", err)
	}

	return id, nil
}

// GetHackathon retrieves a hackathon by ID.
// Returns ErrNotFound if the hackathon doesn't exist.
func (s *SQLiteStorage) GetHackathon(ctx context.Context, id int64) (*Hackathon, error) {
	var h Hackathon

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM hackathons WHERE id = ?", id).
		Scan(&h.ID, &h.Name, &h.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get hackathon: %w", err)
	}

	return &h, nil
}

// CreateJudge inserts a judge and returns their ID.
func (s *SQLiteStorage) CreateJudge(ctx context.Context, name, email string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO judges (name, email) VALUES (?, ?)", name, email)
	if err != nil {
		return 0, fmt.Errorf("failed to create judge: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get insert ID: %w", err)
	}

	return id, nil
}

// GetJudge retrieves a judge by ID.
// Returns ErrNotFound if the judge doesn't exist.
func (s *SQLiteStorage) GetJudge(ctx context.Context, id int64) (*Judge, error) {
	var j Judge

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, created_at FROM judges WHERE id = ?", id).
		Scan(&j.ID, &j.Name, &j.Email, &j.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get judge: %w", err)
	}

	return &j, nil
}

// AssignJudge adds a judge to a hackathon's judging panel.
// Returns ErrDuplicate if the judge is already assigned.
func (s *SQLiteStorage) AssignJudge(ctx context.Context, hackathonID, judgeID int64) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO hackathon_judges (hackathon_id, judge_id) VALUES (?, ?)",
		hackathonID, judgeID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to assign judge: %w", err)
	}

	return nil
}

// ListHackathonJudges returns every judge assigned to a hackathon.
// Bulk token fan-out iterates this list.
// Returns empty slice if no judges are assigned.
func (s *SQLiteStorage) ListHackathonJudges(ctx context.Context, hackathonID int64) ([]*Judge, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT j.id, j.name, j.email, j.created_at
		 FROM judges j
		 JOIN hackathon_judges hj ON hj.judge_id = j.id
		 WHERE hj.hackathon_id = ?
		 ORDER BY j.id ASC`,
		hackathonID)
	if err != nil {
		return nil, fmt.Errorf("failed to query hackathon judges: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var judges []*Judge

	for rows.Next() {
		var j Judge
		if err := rows.Scan(&j.ID, &j.Name, &j.Email, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan judge row: %w", err)
		}
		judges = append(judges, &j)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating judges: %w", err)
	}

	if judges == nil {
		judges = []*Judge{}
	}

	return judges, nil
}

// RemoveJudge removes a judge from a hackathon's panel and deletes their
// capability token for it in the same transaction.
func (s *SQLiteStorage) RemoveJudge(ctx context.Context, hackathonID, judgeID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	result, err := tx.ExecContext(ctx,
		"DELETE FROM hackathon_judges WHERE hackathon_id = ? AND judge_id = ?",
		hackathonID, judgeID)
	if err != nil {
		return fmt.Errorf("failed to remove judge: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM access_tokens WHERE hackathon_id = ? AND judge_id = ?",
		hackathonID, judgeID); err != nil {
		return fmt.Errorf("failed to delete access token: %w", err)
	}

	return tx.Commit()
}
