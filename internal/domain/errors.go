package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for errors.Is() checking.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation error")
	ErrConflict    = errors.New("conflict")
	ErrForbidden   = errors.New("forbidden")
	ErrUnavailable = errors.New("unavailable")
)

// ValidationError provides programmatic access to field-level validation failures.
// Use errors.Is(err, ErrValidation) for simple checks, or errors.As(err, &verr) to
// access verr.Fields for per-field error details.
//
// Message holds the human-readable message of the first failing constraint,
// which is what callers of the action layer see in the result envelope.
type ValidationError struct {
	Fields  map[string]string
	Message string
}

// NewValidationError builds a single-field ValidationError whose message is
// also the summary message.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{
		Fields:  map[string]string{field: msg},
		Message: msg,
	}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		keys = append(keys, field)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, field := range keys {
		parts = append(parts, field+": "+e.Fields[field])
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s: %s", ErrValidation.Error(), e.Message)
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Summary returns the first failing message. When Message is unset it falls
// back to the alphabetically first field message so the result is stable.
func (e *ValidationError) Summary() string {
	if e.Message != "" {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		keys = append(keys, field)
	}
	if len(keys) == 0 {
		return ErrValidation.Error()
	}
	sort.Strings(keys)
	return e.Fields[keys[0]]
}
