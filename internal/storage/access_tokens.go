package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// LookupAccessToken retrieves a capability record by exact token value.
// This is the authentication lookup; callers are expected to have run the
// cheap format check first. Returns ErrNotFound if no record matches.
func (s *SQLiteStorage) LookupAccessToken(ctx context.Context, tokenValue string) (*AccessToken, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, judge_id, hackathon_id, token_value, expires_at, last_accessed_at, created_at, updated_at
		 FROM access_tokens WHERE token_value = ?`,
		tokenValue)

	return scanAccessToken(row)
}

// UpsertAccessToken creates or overwrites the capability record for a
// (judge, hackathon) pair. A resend overwrites token_value and expires_at
// in place on the same row, so at most one link per judge per hackathon
// is ever live; the previous link silently stops working.
func (s *SQLiteStorage) UpsertAccessToken(ctx context.Context, judgeID, hackathonID int64, tokenValue string, expiresAt time.Time) (*AccessToken, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO access_tokens (judge_id, hackathon_id, token_value, expires_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (judge_id, hackathon_id) DO UPDATE SET
			token_value = excluded.token_value,
			expires_at = excluded.expires_at,
			last_accessed_at = NULL,
			updated_at = CURRENT_TIMESTAMP`,
		judgeID, hackathonID, tokenValue, expiresAt.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to upsert access token: %w", err)
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, judge_id, hackathon_id, token_value, expires_at, last_accessed_at, created_at, updated_at
		 FROM access_tokens WHERE judge_id = ? AND hackathon_id = ?`,
		judgeID, hackathonID)

	return scanAccessToken(row)
}

// TouchLastAccessed records a successful authentication on the token.
// This is a best-effort side effect; callers must never fail a request
// because this write errored.
func (s *SQLiteStorage) TouchLastAccessed(ctx context.Context, tokenID int64, now time.Time) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE access_tokens SET last_accessed_at = ? WHERE id = ?",
		now.UTC(), tokenID)
	if err != nil {
		return fmt.Errorf("failed to touch access token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteAccessToken revokes a judge's capability for a hackathon.
// Revocation is only by deletion; there is no blacklist.
// Returns ErrNotFound if no record exists for the pair.
func (s *SQLiteStorage) DeleteAccessToken(ctx context.Context, judgeID, hackathonID int64) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM access_tokens WHERE judge_id = ? AND hackathon_id = ?",
		judgeID, hackathonID)
	if err != nil {
		return fmt.Errorf("failed to delete access token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func scanAccessToken(row *sql.Row) (*AccessToken, error) {
	var t AccessToken
	var lastAccessed sql.NullTime

	err := row.Scan(&t.ID, &t.JudgeID, &t.HackathonID, &t.TokenValue,
		&t.ExpiresAt, &lastAccessed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan access token: %w", err)
	}

	if lastAccessed.Valid {
		la := lastAccessed.Time
		t.LastAccessedAt = &la
	}

	return &t, nil
}
