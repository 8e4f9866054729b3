package metrics

import (
	"net/http"
	"regexp"
	"time"
)

// Path segments are normalized before they become label values. Numeric
// IDs would explode cardinality; capability tokens are secrets and must
// never appear in metric labels at all.
var (
	numericSegment = regexp.MustCompile(`/(\d+)`)
	tokenSegment   = regexp.MustCompile(`/[a-fA-F0-9]{32,}`)
)

// statusRecorder wraps http.ResponseWriter to capture the status code
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

// WriteHeader captures the status code and writes it to the underlying ResponseWriter
func (r *statusRecorder) WriteHeader(code int) {
	if !r.written {
		r.statusCode = code
		r.written = true
		r.ResponseWriter.WriteHeader(code)
	}
}

// Write ensures WriteHeader is called before writing body
func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.written {
		r.statusCode = http.StatusOK
		r.written = true
	}
	return r.ResponseWriter.Write(b)
}

// Middleware returns an HTTP middleware that records Prometheus metrics for each request.
// It tracks:
// - Request count by method, path, and status code
// - Request duration (latency)
// - Panics are recorded as 500 status codes
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Wrap the response writer to capture the status code
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK, // default if not explicitly set
		}

		startTime := time.Now()

		defer func() {
			duration := time.Since(startTime).Seconds()

			statusCode := recorder.statusCode
			if statusCode == 0 {
				statusCode = http.StatusInternalServerError
			}

			// Normalize the path to avoid cardinality explosion and to keep
			// capability tokens out of the metrics endpoint.
			// e.g. /judge/ab12.../info becomes /judge/:token/info
			normalizedPath := normalizePath(r.URL.Path)

			statusStr := http.StatusText(statusCode)
			if statusStr == "" {
				statusStr = "UNKNOWN"
			}

			RecordRequest(r.Method, normalizedPath, statusStr)
			RecordRequestDuration(r.Method, normalizedPath, statusStr, duration)

			if err := recover(); err != nil {
				if !recorder.written {
					recorder.statusCode = http.StatusInternalServerError
					recorder.WriteHeader(http.StatusInternalServerError)
				}
				// Don't re-panic - the recovery middleware handles the rest
			}
		}()

		next.ServeHTTP(recorder, r)
	})
}

// normalizePath takes a request path and returns a version safe for use as
// a metric label. Token-like hex segments collapse to :token, numeric IDs
// to :id.
// Examples:
//
//	/judge/4f9a.../submissions -> /judge/:token/submissions
//	/api/hackathons/12/judges/7 -> /api/hackathons/:id/judges/:id
func normalizePath(path string) string {
	path = tokenSegment.ReplaceAllString(path, "/:token")
	return numericSegment.ReplaceAllString(path, "/:id")
}
