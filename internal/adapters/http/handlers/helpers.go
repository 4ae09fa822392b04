package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jsamuelsen11/user-action-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/user-action-service/internal/domain/user"
	"github.com/jsamuelsen11/user-action-service/internal/platform/logging"
)

// maxJSONBodyBytes is the maximum allowed size for a JSON request body (1 MB).
const maxJSONBodyBytes = 1 << 20

const (
	msgInvalidBody = "Invalid request body"
	msgBodyTooLong = "Request body is too large"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	if err := dto.Write(w, status, v); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(),
			"failed to encode response", slog.Any("error", err))
	}
}

// writeEnvelope writes env with the status derived from its kind.
func writeEnvelope[T any](w http.ResponseWriter, r *http.Request, env dto.Envelope[T], okStatus int) {
	writeJSON(w, r, dto.StatusFor(env, okStatus), env)
}

// decodeJSONBody decodes the request body as JSON into dst. The body is
// limited to maxJSONBodyBytes to prevent resource exhaustion. On failure,
// it writes a validation envelope and returns false.
func decodeJSONBody[T any](w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		msg := msgInvalidBody
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			msg = msgBodyTooLong
		}
		writeEnvelope(w, r, dto.InvalidRequest[T]("body", msg), http.StatusOK)
		return false
	}
	return true
}

// parseFilter reads limit and offset query parameters. Missing values keep
// their zero value and are defaulted by the action layer.
func parseFilter(r *http.Request) (user.Filter, string, string) {
	var f user.Filter
	q := r.URL.Query()

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return f, "limit", "Limit must be a non-negative whole number"
		}
		f.Limit = n
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return f, "offset", "Offset must be a non-negative whole number"
		}
		f.Offset = n
	}
	return f, "", ""
}
