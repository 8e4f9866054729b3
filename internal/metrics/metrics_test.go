package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// TestInitSucceeds verifies that Init() registers every metric family.
func TestInitSucceeds(t *testing.T) {
	// Don't run in parallel since we're testing global state
	reg := prometheus.NewRegistry()

	if err := Init(reg); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	// Record some data so the vectors appear in Gather output
	RecordRequest("GET", "/judge/:token/info", "OK")
	RecordRequestDuration("GET", "/judge/:token/info", "OK", 0.05)
	RecordAuthFailure("expired")
	RecordMailOutcome("sent")
	RecordMailRetry()
	SetMailQueueDepth("high", 3)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	names := make(map[string]bool)
	for _, mf := range families {
		names[mf.GetName()] = true
	}

	for _, want := range []string{
		"jurylink_api_requests_total",
		"jurylink_api_request_duration_seconds",
		"jurylink_api_auth_failures_total",
		"jurylink_mail_dispatches_total",
		"jurylink_mail_retries_total",
		"jurylink_mail_queue_depth",
		"jurylink_api_info",
	} {
		if !names[want] {
			t.Errorf("metric %s not registered (got %v)", want, names)
		}
	}
}

// TestDoubleInitFails verifies that re-registering on the same registry errors.
func TestDoubleInitFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Init(reg); err != nil {
		t.Fatalf("first Init() failed: %v", err)
	}
	if err := Init(reg); err == nil {
		t.Error("second Init() on the same registry should fail")
	}
}

// TestGetMetricsText verifies the text-format rendering helper.
func TestGetMetricsText(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Init(reg); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	RecordAuthFailure("not_found")

	text, err := GetMetricsText(reg)
	if err != nil {
		t.Fatalf("GetMetricsText() failed: %v", err)
	}
	if !strings.Contains(text, "jurylink_api_auth_failures_total") {
		t.Error("text output missing auth failures metric")
	}
	if !strings.Contains(text, `reason="not_found"`) {
		t.Error("text output missing reason label")
	}
}
