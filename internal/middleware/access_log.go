package middleware

import (
	"log/slog"
	"net/http"
	"regexp"
	"time"
)

// Capability tokens appear as path segments; they must never reach the
// logs in full. Long hex segments are reduced to a short prefix.
var tokenPathSegment = regexp.MustCompile(`/([a-fA-F0-9]{32,})`)

// statusWriter captures the response status for the access log.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// AccessLog logs one line per request with method, masked path, status
// and duration, tagged with the request ID when present.
func AccessLog(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(sw, r)

			status := sw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Info("request",
				"method", r.Method,
				"path", MaskTokens(r.URL.Path),
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", GetRequestID(r.Context()),
			)
		})
	}
}

// MaskTokens replaces token-like path segments with an 8-char prefix so
// log lines stay correlatable without leaking the capability.
func MaskTokens(path string) string {
	return tokenPathSegment.ReplaceAllStringFunc(path, func(seg string) string {
		// seg includes the leading slash
		return seg[:9] + "..."
	})
}
