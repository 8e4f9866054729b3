// Package mockstore provides a configurable mock implementation of the
// storage interface for testing.
//
// The MockStorage type uses function fields for each method, allowing
// tests to customize behavior as needed while providing sensible defaults
// for methods that aren't customized.
package mockstore

import (
	"context"
	"time"

	"github.com/jurylink/jurylink/internal/storage"
)

// MockStorage is a configurable mock implementation of storage.Storage.
// Each method can be customized by setting the corresponding function
// field. If a function field is nil, the method returns a sensible
// default value.
type MockStorage struct {
	// Access token operations
	LookupAccessTokenFunc func(ctx context.Context, tokenValue string) (*storage.AccessToken, error)
	UpsertAccessTokenFunc func(ctx context.Context, judgeID, hackathonID int64, tokenValue string, expiresAt time.Time) (*storage.AccessToken, error)
	TouchLastAccessedFunc func(ctx context.Context, tokenID int64, now time.Time) error
	DeleteAccessTokenFunc func(ctx context.Context, judgeID, hackathonID int64) error

	// Judge and hackathon reads
	GetJudgeFunc            func(ctx context.Context, id int64) (*storage.Judge, error)
	GetHackathonFunc        func(ctx context.Context, id int64) (*storage.Hackathon, error)
	ListHackathonJudgesFunc func(ctx context.Context, hackathonID int64) ([]*storage.Judge, error)

	// Submission and score operations
	GetSubmissionFunc             func(ctx context.Context, id int64) (*storage.Submission, error)
	ListSubmissionsWithScoresFunc func(ctx context.Context, hackathonID, judgeID int64) ([]*storage.SubmissionWithScore, error)
	UpsertScoreFunc               func(ctx context.Context, judgeID, submissionID int64, score float64, notes string, now time.Time) (*storage.Score, error)

	// Organizer token operations
	CreateOrganizerTokenFunc func(ctx context.Context, name string, key string) (int64, error)
	ListOrganizerTokensFunc  func(ctx context.Context) ([]*storage.OrganizerToken, error)
	DeleteOrganizerTokenFunc func(ctx context.Context, id int64) error

	// Lifecycle
	PingFunc  func(ctx context.Context) error
	CloseFunc func() error
}

// LookupAccessToken finds a live token by its exact value.
func (m *MockStorage) LookupAccessToken(ctx context.Context, tokenValue string) (*storage.AccessToken, error) {
	if m.LookupAccessTokenFunc != nil {
		return m.LookupAccessTokenFunc(ctx, tokenValue)
	}
	return nil, storage.ErrNotFound
}

// UpsertAccessToken creates or replaces the token for a judge/hackathon pair.
func (m *MockStorage) UpsertAccessToken(ctx context.Context, judgeID, hackathonID int64, tokenValue string, expiresAt time.Time) (*storage.AccessToken, error) {
	if m.UpsertAccessTokenFunc != nil {
		return m.UpsertAccessTokenFunc(ctx, judgeID, hackathonID, tokenValue, expiresAt)
	}
	return &storage.AccessToken{
		ID:          1,
		JudgeID:     judgeID,
		HackathonID: hackathonID,
		TokenValue:  tokenValue,
		ExpiresAt:   expiresAt,
	}, nil
}

// TouchLastAccessed records an authentication on a token.
func (m *MockStorage) TouchLastAccessed(ctx context.Context, tokenID int64, now time.Time) error {
	if m.TouchLastAccessedFunc != nil {
		return m.TouchLastAccessedFunc(ctx, tokenID, now)
	}
	return nil
}

// DeleteAccessToken removes the token for a judge/hackathon pair.
func (m *MockStorage) DeleteAccessToken(ctx context.Context, judgeID, hackathonID int64) error {
	if m.DeleteAccessTokenFunc != nil {
		return m.DeleteAccessTokenFunc(ctx, judgeID, hackathonID)
	}
	return nil
}

// GetJudge retrieves a judge by ID.
func (m *MockStorage) GetJudge(ctx context.Context, id int64) (*storage.Judge, error) {
	if m.GetJudgeFunc != nil {
		return m.GetJudgeFunc(ctx, id)
	}
	return nil, storage.ErrNotFound
}

// GetHackathon retrieves a hackathon by ID.
func (m *MockStorage) GetHackathon(ctx context.Context, id int64) (*storage.Hackathon, error) {
	if m.GetHackathonFunc != nil {
		return m.GetHackathonFunc(ctx, id)
	}
	return nil, storage.ErrNotFound
}

// ListHackathonJudges lists the judges assigned to a hackathon.
func (m *MockStorage) ListHackathonJudges(ctx context.Context, hackathonID int64) ([]*storage.Judge, error) {
	if m.ListHackathonJudgesFunc != nil {
		return m.ListHackathonJudgesFunc(ctx, hackathonID)
	}
	return []*storage.Judge{}, nil
}

// GetSubmission retrieves a submission by ID.
func (m *MockStorage) GetSubmission(ctx context.Context, id int64) (*storage.Submission, error) {
	if m.GetSubmissionFunc != nil {
		return m.GetSubmissionFunc(ctx, id)
	}
	return nil, storage.ErrNotFound
}

// ListSubmissionsWithScores lists a hackathon's submissions with the
// judge's own scores attached.
func (m *MockStorage) ListSubmissionsWithScores(ctx context.Context, hackathonID, judgeID int64) ([]*storage.SubmissionWithScore, error) {
	if m.ListSubmissionsWithScoresFunc != nil {
		return m.ListSubmissionsWithScoresFunc(ctx, hackathonID, judgeID)
	}
	return []*storage.SubmissionWithScore{}, nil
}

// UpsertScore records or updates a judge's score for a submission.
func (m *MockStorage) UpsertScore(ctx context.Context, judgeID, submissionID int64, score float64, notes string, now time.Time) (*storage.Score, error) {
	if m.UpsertScoreFunc != nil {
		return m.UpsertScoreFunc(ctx, judgeID, submissionID, score, notes, now)
	}
	return &storage.Score{
		ID:           1,
		JudgeID:      judgeID,
		SubmissionID: submissionID,
		Score:        score,
		Notes:        notes,
		ScoredAt:     now,
	}, nil
}

// CreateOrganizerToken stores a new organizer access key.
func (m *MockStorage) CreateOrganizerToken(ctx context.Context, name string, key string) (int64, error) {
	if m.CreateOrganizerTokenFunc != nil {
		return m.CreateOrganizerTokenFunc(ctx, name, key)
	}
	return 1, nil
}

// ListOrganizerTokens lists all organizer access keys.
func (m *MockStorage) ListOrganizerTokens(ctx context.Context) ([]*storage.OrganizerToken, error) {
	if m.ListOrganizerTokensFunc != nil {
		return m.ListOrganizerTokensFunc(ctx)
	}
	return []*storage.OrganizerToken{}, nil
}

// DeleteOrganizerToken removes an organizer access key.
func (m *MockStorage) DeleteOrganizerToken(ctx context.Context, id int64) error {
	if m.DeleteOrganizerTokenFunc != nil {
		return m.DeleteOrganizerTokenFunc(ctx, id)
	}
	return nil
}

// Ping checks connectivity.
func (m *MockStorage) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// Close releases resources.
func (m *MockStorage) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}
