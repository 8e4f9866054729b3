package mockstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jurylink/jurylink/internal/storage"
)

// TestImplementsStorage pins the mock to the full interface at compile time.
func TestImplementsStorage(t *testing.T) {
	var _ storage.Storage = (*MockStorage)(nil)
}

func TestDefaults(t *testing.T) {
	m := &MockStorage{}
	ctx := context.Background()

	if _, err := m.LookupAccessToken(ctx, "x"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("default LookupAccessToken err = %v, want ErrNotFound", err)
	}
	if err := m.TouchLastAccessed(ctx, 1, time.Now()); err != nil {
		t.Errorf("default TouchLastAccessed err = %v", err)
	}
	judges, err := m.ListHackathonJudges(ctx, 1)
	if err != nil || judges == nil || len(judges) != 0 {
		t.Errorf("default ListHackathonJudges = %v, %v", judges, err)
	}
	if err := m.Ping(ctx); err != nil {
		t.Errorf("default Ping err = %v", err)
	}
}

func TestOverride(t *testing.T) {
	want := &storage.AccessToken{ID: 42, JudgeID: 1, HackathonID: 2}
	m := &MockStorage{
		LookupAccessTokenFunc: func(_ context.Context, value string) (*storage.AccessToken, error) {
			if value != "abc" {
				t.Errorf("lookup value = %q, want abc", value)
			}
			return want, nil
		},
	}

	got, err := m.LookupAccessToken(context.Background(), "abc")
	if err != nil {
		t.Fatalf("LookupAccessToken err = %v", err)
	}
	if got != want {
		t.Errorf("LookupAccessToken = %+v, want %+v", got, want)
	}
}
