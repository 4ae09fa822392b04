// Package middleware holds the inbound HTTP pipeline for the users API.
//
// The router installs the middleware in this order:
//
//	Recovery → CORS → RequestID → CorrelationID → OpenTelemetry → Logging → Timeout → Handler
//
// Each middleware is a func(http.Handler) http.Handler registered with chi's
// Use, so the first listed runs outermost.
package middleware

import "net/http"

// statusRecorder remembers the status and body size a handler produced so
// the outer middleware can log, trace, and decide whether a body can still be
// written after a panic.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func record(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w}
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.status != 0 {
		return
	}
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach Flush and Hijack.
func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

// started reports whether the response line has gone out.
func (sr *statusRecorder) started() bool {
	return sr.status != 0
}

// code is the status sent to the client; a handler that wrote nothing
// produced an implicit 200.
func (sr *statusRecorder) code() int {
	if sr.status == 0 {
		return http.StatusOK
	}
	return sr.status
}
