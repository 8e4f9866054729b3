package judge

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jurylink/jurylink/internal/storage"
)

var validValue = strings.Repeat("a1", 32)

func lookupReturning(record *storage.AccessToken, err error) LookupFunc {
	return func(string) (*storage.AccessToken, error) {
		return record, err
	}
}

func lookupPanicking(t *testing.T) LookupFunc {
	return func(string) (*storage.AccessToken, error) {
		t.Error("lookup must not be called before the format check passes")
		return nil, storage.ErrNotFound
	}
}

func TestAuthenticate_MissingToken(t *testing.T) {
	result := Authenticate("", lookupPanicking(t), time.Now())
	if result.Code != CodeMissingToken {
		t.Errorf("Code = %q, want %q", result.Code, CodeMissingToken)
	}
}

func TestAuthenticate_InvalidFormatSkipsLookup(t *testing.T) {
	// The cheap format check protects the store from malformed-input
	// load, so the lookup must never run for garbage.
	for _, candidate := range []string{"short", "not-hex-not-hex-not-hex-not-hex-!!", strings.Repeat("g", 64)} {
		result := Authenticate(candidate, lookupPanicking(t), time.Now())
		if result.Code != CodeInvalidFormat {
			t.Errorf("Authenticate(%q).Code = %q, want %q", candidate, result.Code, CodeInvalidFormat)
		}
	}
}

func TestAuthenticate_NotFound(t *testing.T) {
	result := Authenticate(validValue, lookupReturning(nil, storage.ErrNotFound), time.Now())
	if result.Code != CodeNotFound {
		t.Errorf("Code = %q, want %q", result.Code, CodeNotFound)
	}
}

func TestAuthenticate_NilRecordIsNotFound(t *testing.T) {
	result := Authenticate(validValue, lookupReturning(nil, nil), time.Now())
	if result.Code != CodeNotFound {
		t.Errorf("Code = %q, want %q", result.Code, CodeNotFound)
	}
}

func TestAuthenticate_Expired(t *testing.T) {
	record := &storage.AccessToken{
		ID: 1, JudgeID: 7, HackathonID: 5,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	result := Authenticate(validValue, lookupReturning(record, nil), time.Now())
	if result.Code != CodeExpired {
		t.Errorf("Code = %q, want %q", result.Code, CodeExpired)
	}
}

func TestAuthenticate_StoreFailure(t *testing.T) {
	boom := errors.New("disk on fire")
	result := Authenticate(validValue, lookupReturning(nil, boom), time.Now())
	if result.Code != CodeError {
		t.Errorf("Code = %q, want %q", result.Code, CodeError)
	}
	if !errors.Is(result.Err, boom) {
		t.Errorf("Err = %v, want the lookup error", result.Err)
	}
}

func TestAuthenticate_Success(t *testing.T) {
	record := &storage.AccessToken{
		ID: 3, JudgeID: 7, HackathonID: 5,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	result := Authenticate(validValue, lookupReturning(record, nil), time.Now())
	if result.Code != CodeOK {
		t.Fatalf("Code = %q, want %q", result.Code, CodeOK)
	}
	if result.Scope.JudgeID != 7 || result.Scope.HackathonID != 5 || result.Scope.TokenID != 3 {
		t.Errorf("Scope = %+v, want {JudgeID:7 HackathonID:5 TokenID:3}", result.Scope)
	}
}

// TestAuthenticate_ExpiryBoundaryScenario pins the dated boundary: a
// token expiring at 2030-01-01T00:00:00Z authenticates one second
// before, still authenticates at the exact instant, and is rejected one
// second after.
func TestAuthenticate_ExpiryBoundaryScenario(t *testing.T) {
	expiry := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	record := &storage.AccessToken{ID: 1, JudgeID: 1, HackathonID: 5, ExpiresAt: expiry}
	lookup := lookupReturning(record, nil)

	before := Authenticate(validValue, lookup, time.Date(2029, 12, 31, 23, 59, 59, 0, time.UTC))
	if before.Code != CodeOK {
		t.Errorf("one second before expiry: Code = %q, want ok", before.Code)
	}

	at := Authenticate(validValue, lookup, expiry)
	if at.Code != CodeOK {
		t.Errorf("at the expiry instant: Code = %q, want ok", at.Code)
	}

	after := Authenticate(validValue, lookup, time.Date(2030, 1, 1, 0, 0, 1, 0, time.UTC))
	if after.Code != CodeExpired {
		t.Errorf("one second after expiry: Code = %q, want expired", after.Code)
	}
}

// TestAuthenticate_Totality checks that every outcome is exactly one of
// the declared codes and that success implies a live, well-formed token.
func TestAuthenticate_Totality(t *testing.T) {
	now := time.Now()
	live := &storage.AccessToken{ID: 1, JudgeID: 1, HackathonID: 1, ExpiresAt: now.Add(time.Hour)}
	dead := &storage.AccessToken{ID: 2, JudgeID: 1, HackathonID: 1, ExpiresAt: now.Add(-time.Hour)}

	cases := []struct {
		token  string
		record *storage.AccessToken
		err    error
	}{
		{"", nil, nil},
		{"zz", nil, nil},
		{validValue, nil, storage.ErrNotFound},
		{validValue, dead, nil},
		{validValue, live, nil},
		{validValue, nil, errors.New("io")},
	}

	known := map[Code]bool{
		CodeOK: true, CodeMissingToken: true, CodeInvalidFormat: true,
		CodeNotFound: true, CodeExpired: true, CodeError: true,
	}

	for _, c := range cases {
		result := Authenticate(c.token, lookupReturning(c.record, c.err), now)
		if !known[result.Code] {
			t.Errorf("Authenticate(%q) returned unknown code %q", c.token, result.Code)
		}
		if result.Code == CodeOK {
			if c.record == nil {
				t.Error("success without a record")
			} else if c.record.ExpiresAt.Before(now) {
				t.Error("success with an expired record")
			}
		}
	}
}
