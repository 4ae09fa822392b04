// Package validation provides declarative, struct-tag driven schema
// validation built on go-playground/validator. It implements parse-or-fail
// semantics: a value either passes or yields a *domain.ValidationError with
// per-field messages and the first failing message as its summary.
//
// Schemas are declared on input structs:
//
//	type CreateInput struct {
//	    Name  string `json:"name"  label:"Name"  validate:"required,max=100"`
//	    Email string `json:"email" label:"Email" validate:"required,email"`
//	}
//
// Field keys in the resulting error use the json tag name; messages use the
// label tag (falling back to the Go field name).
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/jsamuelsen11/user-action-service/internal/domain"
)

// Validator checks values against their struct-tag schema. It is safe for
// concurrent use; create one at start-up and share it.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator that reports fields by their json names. Besides
// the built-in tags it understands notblank.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("validation: registering notblank: %v", err))
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		default:
			return name
		}
	})
	return &Validator{v: v}
}

// Struct validates s (a struct or pointer to struct). It returns nil when
// every constraint passes, a *domain.ValidationError when any fails, and a
// plain error when s is not a validatable value (a programming error).
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return fmt.Errorf("validating %T: %w", s, err)
	}

	labels := labelsOf(s)
	verr := &domain.ValidationError{Fields: make(map[string]string, len(ves))}
	for _, fe := range ves {
		msg := message(fe, labels[fe.StructField()])
		if _, seen := verr.Fields[fe.Field()]; !seen {
			verr.Fields[fe.Field()] = msg
		}
		if verr.Message == "" {
			verr.Message = msg
		}
	}
	return verr
}

// Var validates a single value against tag, reporting failures under field
// and rendering messages with label.
func (v *Validator) Var(field, label string, value any, tag string) error {
	err := v.v.Var(value, tag)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return fmt.Errorf("validating %s: %w", field, err)
	}
	return domain.NewValidationError(field, message(ves[0], label))
}

// labelsOf maps Go field names to their label tag.
func labelsOf(s any) map[string]string {
	t := reflect.TypeOf(s)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	labels := make(map[string]string, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if label := f.Tag.Get("label"); label != "" {
			labels[f.Name] = label
		}
	}
	return labels
}

// message renders a human-readable message for a single failed constraint.
func message(fe validator.FieldError, label string) string {
	if label == "" {
		label = fe.StructField()
	}
	if label == "" {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "notblank":
		return label + " must not be empty"
	case "email":
		return "Invalid email address"
	case "url", "http_url":
		return label + " must be a valid URL"
	case "uuid", "uuid4":
		return label + " must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Fields(fe.Param()), ", "))
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	default:
		return label + " is invalid"
	}
}
