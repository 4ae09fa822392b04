package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/jsamuelsen11/user-action-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/user-action-service/internal/app/action"
)

// msgInternal is the only detail a client sees for a recovered panic.
const msgInternal = "Internal server error"

// Recovery turns a handler panic into a 500 backend envelope and an error log
// carrying the panic value, its stack, and the matched route. A panic after
// the status line went out is only logged. http.ErrAbortHandler is passed on
// so net/http can abort the connection.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := record(w)
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(v)
				}

				logger.ErrorContext(r.Context(), "panic recovered",
					slog.String("panic", fmt.Sprint(v)),
					slog.String("panic_type", fmt.Sprintf("%T", v)),
					slog.String("method", r.Method),
					slog.String("route", routePattern(r)),
					slog.Bool("response_started", rec.started()),
					slog.String("stack", string(debug.Stack())),
				)
				if !rec.started() {
					_ = dto.Write(rec, http.StatusInternalServerError, dto.Failure(action.KindBackend, msgInternal))
				}
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
