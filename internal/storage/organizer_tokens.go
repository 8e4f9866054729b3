package storage

import (
	"context"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// CreateOrganizerToken creates a new organizer token with a bcrypt hash.
// Returns the new token ID.
// Returns ErrDuplicate if a token with this hash already exists.
func (s *SQLiteStorage) CreateOrganizerToken(ctx context.Context, name string, key string) (int64, error) {
	keyHash, err := HashKey(key)
	if err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO organizer_tokens (key_hash, name) VALUES (?, ?)",
		keyHash, name)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("failed to create organizer token: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get insert ID: %w", err)
	}

	return id, nil
}

// ListOrganizerTokens returns all organizer tokens.
// Authentication iterates these - bcrypt hashes are not comparable
// directly, so there is no lookup-by-hash shortcut.
// Returns empty slice if no tokens exist.
func (s *SQLiteStorage) ListOrganizerTokens(ctx context.Context) ([]*OrganizerToken, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, key_hash, name, created_at FROM organizer_tokens ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query organizer tokens: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var tokens []*OrganizerToken

	for rows.Next() {
		var t OrganizerToken
		if err := rows.Scan(&t.ID, &t.KeyHash, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan organizer token row: %w", err)
		}
		tokens = append(tokens, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating organizer tokens: %w", err)
	}

	if tokens == nil {
		tokens = make([]*OrganizerToken, 0)
	}

	return tokens, nil
}

// DeleteOrganizerToken deletes an organizer token by ID.
// Returns ErrNotFound if the token doesn't exist.
func (s *SQLiteStorage) DeleteOrganizerToken(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM organizer_tokens WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete organizer token: %w", err)
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

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// violation. The extended error code for UNIQUE constraint is 2067; the
// base constraint error code is 19.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == 2067 || (sqliteErr.Code()&0xFF) == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}
