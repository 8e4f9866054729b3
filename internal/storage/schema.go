package storage

import (
	"database/sql"
	"fmt"
)

// InitSchema creates all required tables and indexes.
// This is idempotent - safe to call multiple times.
func InitSchema(db *sql.DB) error {
	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	ddlStatements := []string{
		`CREATE TABLE IF NOT EXISTS hackathons (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS judges (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// hackathon_judges: which judges are assigned to which hackathon.
		// Bulk token fan-out iterates this table.
		`CREATE TABLE IF NOT EXISTS hackathon_judges (
			hackathon_id INTEGER NOT NULL,
			judge_id INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (hackathon_id, judge_id),
			FOREIGN KEY (hackathon_id) REFERENCES hackathons(id) ON DELETE CASCADE,
			FOREIGN KEY (judge_id) REFERENCES judges(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS submissions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			hackathon_id INTEGER NOT NULL,
			team_name TEXT NOT NULL,
			project_name TEXT NOT NULL,
			contact_email TEXT NOT NULL DEFAULT '',
			submitted_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (hackathon_id) REFERENCES hackathons(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_submissions_hackathon ON submissions(hackathon_id)`,

		// access_tokens: one capability record per (judge, hackathon).
		// The UNIQUE constraint on token_value is a defensive measure;
		// 256 bits of entropy already make collisions unreachable.
		`CREATE TABLE IF NOT EXISTS access_tokens (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			judge_id INTEGER NOT NULL,
			hackathon_id INTEGER NOT NULL,
			token_value TEXT NOT NULL UNIQUE,
			expires_at TIMESTAMP NOT NULL,
			last_accessed_at TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (judge_id, hackathon_id),
			FOREIGN KEY (judge_id) REFERENCES judges(id) ON DELETE CASCADE,
			FOREIGN KEY (hackathon_id) REFERENCES hackathons(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_access_tokens_value ON access_tokens(token_value)`,

		// scores: at most one score per judge per submission.
		`CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			judge_id INTEGER NOT NULL,
			submission_id INTEGER NOT NULL,
			score REAL NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			scored_at TIMESTAMP NOT NULL,
			UNIQUE (judge_id, submission_id),
			FOREIGN KEY (judge_id) REFERENCES judges(id) ON DELETE CASCADE,
			FOREIGN KEY (submission_id) REFERENCES submissions(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_scores_submission ON scores(submission_id)`,

		// organizer_tokens: admin credentials for the organizer API.
		`CREATE TABLE IF NOT EXISTS organizer_tokens (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			key_hash TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, stmt := range ddlStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute DDL: %w", err)
		}
	}

	return nil
}
