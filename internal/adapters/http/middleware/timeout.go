package middleware

import (
	"context"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/jsamuelsen11/user-action-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/user-action-service/internal/app/action"
)

const msgTimedOut = "Request timed out"

// Timeout bounds each request by d. The handler runs on its own goroutine
// against a buffered writer and a context carrying the deadline; if it has
// not returned when the deadline passes the client gets a 504 backend
// envelope and any later handler write fails with http.ErrHandlerTimeout.
//
// A handler panic is re-raised on the serving goroutine so Recovery still
// sees it. A non-positive d disables the deadline.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			bw := &bufferedWriter{header: make(http.Header)}
			done := make(chan struct{})
			panicked := make(chan any, 1)

			go func() {
				defer func() {
					if v := recover(); v != nil {
						panicked <- v
					}
				}()
				next.ServeHTTP(bw, r.WithContext(ctx))
				close(done)
			}()

			select {
			case v := <-panicked:
				panic(v)
			case <-done:
				bw.mu.Lock()
				defer bw.mu.Unlock()
				bw.copyTo(w)
			case <-ctx.Done():
				bw.mu.Lock()
				defer bw.mu.Unlock()
				bw.abandoned = true
				_ = dto.Write(w, http.StatusGatewayTimeout, dto.Failure(action.KindBackend, msgTimedOut))
			}
		})
	}
}

// bufferedWriter holds the handler's response until Timeout decides whether
// it or the 504 reaches the client. mu guards every field.
type bufferedWriter struct {
	mu        sync.Mutex
	header    http.Header
	body      []byte
	status    int
	abandoned bool
}

func (bw *bufferedWriter) Header() http.Header {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	return bw.header
}

func (bw *bufferedWriter) WriteHeader(code int) {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if bw.status == 0 {
		bw.status = code
	}
}

func (bw *bufferedWriter) Write(b []byte) (int, error) {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if bw.abandoned {
		return 0, http.ErrHandlerTimeout
	}
	if bw.status == 0 {
		bw.status = http.StatusOK
	}
	bw.body = append(bw.body, b...)
	return len(b), nil
}

// copyTo replays the buffered response onto w. Callers hold mu.
func (bw *bufferedWriter) copyTo(w http.ResponseWriter) {
	maps.Copy(w.Header(), bw.header)
	if bw.status != 0 {
		w.WriteHeader(bw.status)
	}
	if len(bw.body) > 0 {
		_, _ = w.Write(bw.body)
	}
}
