package storage

import "time"

// AccessToken is the capability record binding a token value to one
// judge's view of one hackathon. At most one row exists per
// (judge, hackathon) pair; a resend overwrites the value and expiry in
// place, so old links silently stop working.
type AccessToken struct {
	ID             int64
	JudgeID        int64
	HackathonID    int64
	TokenValue     string
	ExpiresAt      time.Time
	LastAccessedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Judge is a person invited to score submissions. Judges have no
// account; their capability token is their only credential.
type Judge struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
}

// Hackathon is an event with a set of submissions to be scored.
type Hackathon struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Submission is a team's entry into a hackathon.
type Submission struct {
	ID           int64
	HackathonID  int64
	TeamName     string
	ProjectName  string
	ContactEmail string
	SubmittedAt  time.Time
}

// Score is one judge's evaluation of one submission. The
// (judge, submission) pair is unique; re-scoring updates in place.
type Score struct {
	ID           int64
	JudgeID      int64
	SubmissionID int64
	Score        float64
	Notes        string
	ScoredAt     time.Time
}

// SubmissionWithScore joins a submission with the requesting judge's own
// prior score, if any. Other judges' scores are never exposed here.
type SubmissionWithScore struct {
	Submission
	MyScore *Score
}

// OrganizerToken is an admin credential for the organizer API, stored as
// a bcrypt hash.
type OrganizerToken struct {
	ID        int64
	KeyHash   string
	Name      string
	CreatedAt time.Time
}
