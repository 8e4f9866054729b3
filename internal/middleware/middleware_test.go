package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestID_Generated(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen == "" {
		t.Fatal("no request ID in context")
	}
	if got := rec.Header().Get("X-Request-ID"); got != seen {
		t.Errorf("response header = %q, context = %q", got, seen)
	}
}

func TestRequestID_HonorsValidIncoming(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "client-id.123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "client-id.123" {
		t.Errorf("request ID = %q, want client-id.123", seen)
	}
}

func TestRequestID_RejectsInvalidIncoming(t *testing.T) {
	cases := []string{
		"has spaces",
		"semi;colon",
		strings.Repeat("x", 129),
	}
	for _, bad := range cases {
		var seen string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
		}))

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Request-ID", bad)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if seen == bad || seen == "" {
			t.Errorf("invalid incoming ID %q was not replaced (got %q)", bad, seen)
		}
	}
}

func TestGetRequestID_Missing(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if id := GetRequestID(req.Context()); id != "" {
		t.Errorf("GetRequestID = %q, want empty", id)
	}
}

func TestMaskTokens(t *testing.T) {
	token := strings.Repeat("ab", 32)
	cases := []struct {
		path string
		want string
	}{
		{"/judge/" + token + "/info", "/judge/" + token[:8] + ".../info"},
		{"/judge/" + token, "/judge/" + token[:8] + "..."},
		{"/api/hackathons/12/notify", "/api/hackathons/12/notify"},
		{"/health", "/health"},
	}
	for _, c := range cases {
		if got := MaskTokens(c.path); got != c.want {
			t.Errorf("MaskTokens(%q) = %q, want %q", c.path, got, c.want)
		}
	}
}

func TestAccessLog_MasksTokenAndLogsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := AccessLog(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	token := strings.Repeat("cd", 32)
	req := httptest.NewRequest("GET", "/judge/"+token+"/info", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	line := buf.String()
	if strings.Contains(line, token) {
		t.Errorf("log line leaks the full token: %s", line)
	}
	if !strings.Contains(line, token[:8]) {
		t.Errorf("log line missing token prefix: %s", line)
	}
	if !strings.Contains(line, "status=401") {
		t.Errorf("log line missing status: %s", line)
	}
}

func TestMaxBodySize(t *testing.T) {
	handler := MaxBodySize(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			http.Error(w, "too large", http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	small := httptest.NewRequest("POST", "/", strings.NewReader("tiny"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, small)
	if rec.Code != http.StatusOK {
		t.Errorf("small body status = %d, want 200", rec.Code)
	}

	big := httptest.NewRequest("POST", "/", strings.NewReader(strings.Repeat("x", 64)))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, big)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("big body status = %d, want 413", rec.Code)
	}
}
