// Package acl implements the Anti-Corruption Layer that translates between
// the downstream Users API and domain types. It backs the "remote" store:
// [UserClient] satisfies ports.UserRepository over HTTP. Resource
// translators live in acl/user; shared error mapping lives here.
package acl

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/jsamuelsen11/user-action-service/internal/domain"
)

const maxErrorBody = 64 << 10

// RemoteError is a non-success answer from the Users API. It unwraps to the
// domain sentinel its status or kind maps to, or to nothing for statuses
// with no domain meaning.
type RemoteError struct {
	Status int
	Detail string
	cause  error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("users api responded %d: %s", e.Status, e.Detail)
}

func (e *RemoteError) Unwrap() error {
	return e.cause
}

// errorBody covers both failure shapes the downstream may send: RFC 7807
// problem details, and the {success,error,kind,fields} envelope spoken by
// another instance of this service.
type errorBody struct {
	Detail string `json:"detail"`
	Errors []struct {
		Location string `json:"location"`
		Message  string `json:"message"`
	} `json:"errors"`

	Error  string            `json:"error"`
	Kind   string            `json:"kind"`
	Fields map[string]string `json:"fields"`
}

var kindErrors = map[string]error{
	"not_found": domain.ErrNotFound,
	"conflict":  domain.ErrConflict,
	"backend":   domain.ErrUnavailable,
}

// TranslateHTTPError maps a failed response onto the domain. Validation
// failures (400, 422, or kind "validation") become *domain.ValidationError
// with downstream field names rewritten to ours. An envelope kind wins over
// the status code.
func TranslateHTTPError(resp *http.Response) error {
	body := readErrorBody(resp)

	detail := firstNonEmpty(body.Detail, body.Error, http.StatusText(resp.StatusCode))

	if body.Kind == "validation" || resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity {
		return body.validationError(detail)
	}

	cause, ok := kindErrors[body.Kind]
	if !ok {
		cause = statusError(resp.StatusCode)
	}
	return &RemoteError{Status: resp.StatusCode, Detail: detail, cause: cause}
}

func statusError(code int) error {
	switch {
	case code == http.StatusNotFound:
		return domain.ErrNotFound
	case code == http.StatusConflict, code == http.StatusPreconditionFailed:
		return domain.ErrConflict
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return domain.ErrForbidden
	case code == http.StatusTooManyRequests, code >= http.StatusInternalServerError:
		return domain.ErrUnavailable
	default:
		return nil
	}
}

func readErrorBody(resp *http.Response) errorBody {
	var body errorBody
	if resp.Body == nil {
		return body
	}
	mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mt != "application/problem+json" && mt != "application/json" {
		return body
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return body
	}
	_ = json.Unmarshal(raw, &body)
	return body
}

func (b errorBody) validationError(detail string) *domain.ValidationError {
	fields := make(map[string]string, len(b.Errors)+len(b.Fields))
	for name, msg := range b.Fields {
		fields[localField(name)] = msg
	}
	for _, e := range b.Errors {
		fields[localField(strings.TrimPrefix(e.Location, "body."))] = e.Message
	}
	msg := detail
	if len(b.Errors) > 0 {
		msg = b.Errors[0].Message
	}
	if len(fields) == 0 {
		fields = nil
	}
	return &domain.ValidationError{Fields: fields, Message: msg}
}

// downstreamFields maps the Users API's snake_case names to ours.
var downstreamFields = map[string]string{
	"email_verified": "emailVerified",
	"image_url":      "image",
}

func localField(name string) string {
	if mapped, ok := downstreamFields[name]; ok {
		return mapped
	}
	return name
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
