package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func TestUpsertScore_InsertThenUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	hackathonID, judgeID := seedJudgeAndHackathon(t, s)

	subID, err := s.CreateSubmission(ctx, hackathonID, "Team Rocket", "Pocket Launch", "team@example.com")
	if err != nil {
		t.Fatalf("CreateSubmission failed: %v", err)
	}

	first, err := s.UpsertScore(ctx, judgeID, subID, 7, "solid demo", time.Now())
	if err != nil {
		t.Fatalf("first UpsertScore failed: %v", err)
	}
	if first.Score != 7 {
		t.Errorf("Score = %v, want 7", first.Score)
	}

	second, err := s.UpsertScore(ctx, judgeID, subID, 9, "improved after re-watch", time.Now().Add(time.Second))
	if err != nil {
		t.Fatalf("second UpsertScore failed: %v", err)
	}

	// Update in place, never a second row.
	if second.ID != first.ID {
		t.Errorf("upsert created a new row: id %d -> %d", first.ID, second.ID)
	}
	if second.Score != 9 {
		t.Errorf("Score = %v, want 9", second.Score)
	}
	if second.Notes != "improved after re-watch" {
		t.Errorf("Notes = %q, want updated notes", second.Notes)
	}

	count, err := s.CountScores(ctx, subID)
	if err != nil {
		t.Fatalf("CountScores failed: %v", err)
	}
	if count != 1 {
		t.Errorf("score rows = %d, want 1", count)
	}
}

func TestUpsertScore_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	hackathonID, judgeID := seedJudgeAndHackathon(t, s)

	subID, err := s.CreateSubmission(ctx, hackathonID, "Team A", "Project A", "")
	if err != nil {
		t.Fatalf("CreateSubmission failed: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		if _, err := s.UpsertScore(ctx, judgeID, subID, 5.5, "same every time", now); err != nil {
			t.Fatalf("UpsertScore iteration %d failed: %v", i, err)
		}
	}

	sc, err := s.GetScore(ctx, judgeID, subID)
	if err != nil {
		t.Fatalf("GetScore failed: %v", err)
	}
	if sc.Score != 5.5 || sc.Notes != "same every time" {
		t.Errorf("score = (%v, %q), want (5.5, same every time)", sc.Score, sc.Notes)
	}
}

func TestListSubmissionsWithScores_ScopeContainment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	hackathonID, judgeID := seedJudgeAndHackathon(t, s)

	otherHackathonID, err := s.CreateHackathon(ctx, "Other Hack")
	if err != nil {
		t.Fatalf("CreateHackathon failed: %v", err)
	}

	inScope1, err := s.CreateSubmission(ctx, hackathonID, "In Scope 1", "P1", "")
	if err != nil {
		t.Fatalf("CreateSubmission failed: %v", err)
	}
	inScope2, err := s.CreateSubmission(ctx, hackathonID, "In Scope 2", "P2", "")
	if err != nil {
		t.Fatalf("CreateSubmission failed: %v", err)
	}
	if _, err := s.CreateSubmission(ctx, otherHackathonID, "Out Of Scope", "P3", ""); err != nil {
		t.Fatalf("CreateSubmission failed: %v", err)
	}

	// Score one of the in-scope submissions as our judge, and the other
	// as a different judge - the second score must never leak.
	otherJudgeID, err := s.CreateJudge(ctx, "Other Judge", "other@example.com")
	if err != nil {
		t.Fatalf("CreateJudge failed: %v", err)
	}
	if _, err := s.UpsertScore(ctx, judgeID, inScope1, 8, "mine", time.Now()); err != nil {
		t.Fatalf("UpsertScore failed: %v", err)
	}
	if _, err := s.UpsertScore(ctx, otherJudgeID, inScope2, 2, "not mine", time.Now()); err != nil {
		t.Fatalf("UpsertScore failed: %v", err)
	}

	list, err := s.ListSubmissionsWithScores(ctx, hackathonID, judgeID)
	if err != nil {
		t.Fatalf("ListSubmissionsWithScores failed: %v", err)
	}

	if len(list) != 2 {
		t.Fatalf("submissions = %d, want exactly the 2 in-scope rows", len(list))
	}
	for _, item := range list {
		if item.HackathonID != hackathonID {
			t.Errorf("submission %d has hackathon %d, want %d", item.ID, item.HackathonID, hackathonID)
		}
	}

	// Own score attached; other judge's score absent.
	if list[0].ID != inScope1 || list[0].MyScore == nil {
		t.Errorf("submission %d should carry my own score", inScope1)
	}
	if list[0].MyScore != nil && list[0].MyScore.Notes != "mine" {
		t.Errorf("MyScore.Notes = %q, want mine", list[0].MyScore.Notes)
	}
	if list[1].ID != inScope2 || list[1].MyScore != nil {
		t.Errorf("submission %d must not expose another judge's score", inScope2)
	}
}

func TestGetSubmission_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetSubmission(context.Background(), 404)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
