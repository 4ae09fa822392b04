// Package action implements the boundary every entity action runs through.
//
// An action never returns a Go error or lets a panic escape. It returns a
// Result envelope instead: Success reports the outcome, Entity carries the
// record on success, and on failure Kind classifies the error so callers
// branch without matching on message text:
//
//	res := actions.Create(ctx, in)
//	if !res.Success && res.Kind == action.KindValidation {
//	    // show res.Error next to the form
//	}
//
// Backend details never reach Error. They are logged with the operation name
// and the full error chain, and the caller sees the operation's generic
// failure message.
package action

import (
	"errors"

	"github.com/jsamuelsen11/user-action-service/internal/domain"
)

// Kind classifies a failed action.
type Kind string

// Failure kinds. A successful Result has an empty Kind.
const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindBackend    Kind = "backend"
)

// Result is the uniform envelope returned by every action, reads included.
type Result[T any] struct {
	Success bool
	Entity  *T
	Error   string
	Kind    Kind

	// Fields maps input field names to their validation messages. Only set
	// for KindValidation failures.
	Fields map[string]string
}

// OK returns a successful envelope. entity may be nil for actions that have
// nothing to return, such as delete.
func OK[T any](entity *T) Result[T] {
	return Result[T]{Success: true, Entity: entity}
}

// Fail returns a failed envelope with the given kind and message.
func Fail[T any](kind Kind, msg string) Result[T] {
	return Result[T]{Kind: kind, Error: msg}
}

// Classify maps an error onto a failure Kind using the domain sentinels.
// Anything unrecognised, context errors included, is a backend failure.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return KindValidation
	case errors.Is(err, domain.ErrNotFound):
		return KindNotFound
	case errors.Is(err, domain.ErrConflict):
		return KindConflict
	default:
		return KindBackend
	}
}

// Outcome is the metric label for a result: "success" or the failure kind.
func (r Result[T]) Outcome() string {
	if r.Success {
		return "success"
	}
	return string(r.Kind)
}
