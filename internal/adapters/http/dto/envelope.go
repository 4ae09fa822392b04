package dto

import (
	"encoding/json"
	"net/http"

	"github.com/jsamuelsen11/user-action-service/internal/app/action"
)

// Envelope is the JSON body of every entity endpoint. It mirrors
// action.Result with the entity converted to its wire form.
type Envelope[T any] struct {
	Success bool              `json:"success"`
	Entity  *T                `json:"entity,omitempty"`
	Error   string            `json:"error,omitempty"`
	Kind    action.Kind       `json:"kind,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// FromResult converts an action result into its envelope. convert is only
// called when the result carries an entity.
func FromResult[T, R any](res action.Result[T], convert func(*T) R) Envelope[R] {
	env := Envelope[R]{
		Success: res.Success,
		Error:   res.Error,
		Kind:    res.Kind,
		Fields:  res.Fields,
	}
	if res.Entity != nil {
		v := convert(res.Entity)
		env.Entity = &v
	}
	return env
}

// InvalidRequest is the envelope for a body or query that could not be
// decoded at all.
func InvalidRequest[T any](field, msg string) Envelope[T] {
	return Envelope[T]{
		Kind:   action.KindValidation,
		Error:  msg,
		Fields: map[string]string{field: msg},
	}
}

// StatusFor maps an envelope to its HTTP status. Successful envelopes use
// okStatus.
func StatusFor[T any](env Envelope[T], okStatus int) int {
	if env.Success {
		return okStatus
	}
	switch env.Kind {
	case action.KindValidation:
		return http.StatusBadRequest
	case action.KindNotFound:
		return http.StatusNotFound
	case action.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Failure is an entity-less failed envelope for requests that fail before a
// handler produces a result, such as a recovered panic or a timeout.
func Failure(kind action.Kind, msg string) Envelope[struct{}] {
	return Envelope[struct{}]{Kind: kind, Error: msg}
}

// Write encodes v as a JSON response body with the given status.
func Write(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
