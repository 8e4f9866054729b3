// Package storage handles all database operations for JuryLink.
package storage

import (
	"context"
	"time"
)

// Storage defines the interface for SQLite persistence operations.
type Storage interface {
	// Access token operations
	LookupAccessToken(ctx context.Context, tokenValue string) (*AccessToken, error)
	UpsertAccessToken(ctx context.Context, judgeID, hackathonID int64, tokenValue string, expiresAt time.Time) (*AccessToken, error)
	TouchLastAccessed(ctx context.Context, tokenID int64, now time.Time) error
	DeleteAccessToken(ctx context.Context, judgeID, hackathonID int64) error

	// Judge and hackathon reads
	GetJudge(ctx context.Context, id int64) (*Judge, error)
	GetHackathon(ctx context.Context, id int64) (*Hackathon, error)
	ListHackathonJudges(ctx context.Context, hackathonID int64) ([]*Judge, error)

	// Submission and score operations
	GetSubmission(ctx context.Context, id int64) (*Submission, error)
	ListSubmissionsWithScores(ctx context.Context, hackathonID, judgeID int64) ([]*SubmissionWithScore, error)
	UpsertScore(ctx context.Context, judgeID, submissionID int64, score float64, notes string, now time.Time) (*Score, error)

	// Organizer token operations
	CreateOrganizerToken(ctx context.Context, name string, key string) (int64, error)
	ListOrganizerTokens(ctx context.Context) ([]*OrganizerToken, error)
	DeleteOrganizerToken(ctx context.Context, id int64) error

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}
