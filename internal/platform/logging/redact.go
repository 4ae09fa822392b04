package logging

import (
	"log/slog"
	"net/textproto"
	"regexp"
	"slices"
	"strings"

	"github.com/m-mizutani/masq"
)

// Redacted replaces any value the logger must not emit.
const Redacted = "[REDACTED]"

// credentialHeaders are canonical HTTP header names whose values never reach
// a log line. The HTTP access log masks them at the call site and the handler
// masks them again by field name.
var credentialHeaders = []string{
	"Authorization",
	"Proxy-Authorization",
	"Cookie",
	"Set-Cookie",
	"X-Api-Key",
	"Idempotency-Key",
}

// IsCredentialHeader reports whether values of header name must be masked.
func IsCredentialHeader(name string) bool {
	return slices.Contains(credentialHeaders, textproto.CanonicalMIMEHeaderKey(name))
}

// userContactFields are user attributes identified in logs by user_id only.
// Both the attribute key and the domain struct field spelling are listed.
var userContactFields = []string{"email", "Email", "image", "Image"}

var (
	bearerPattern = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-._~+/]+=*`)
	// Three dot-separated segments of at least ten characters; version
	// strings do not match.
	jwtPattern    = regexp.MustCompile(`[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}`)
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_\-]?key|apikey)\s*[:=]\s*\S+`)
	dsnPattern    = regexp.MustCompile(`(?i)(postgres(ql)?|redis)://[^:\s]+:[^@\s]+@`)
)

// newRedactAttr builds the masq ReplaceAttr used by every handler New
// returns: by field name for credentials and user contact data, and by
// pattern for secrets that leak into free-form strings such as error
// messages carrying a connection string.
func newRedactAttr() func([]string, slog.Attr) slog.Attr {
	var opts []masq.Option
	for _, h := range credentialHeaders {
		opts = append(opts, masq.WithFieldName(h), masq.WithFieldName(strings.ToLower(h)))
	}
	for _, f := range userContactFields {
		opts = append(opts, masq.WithFieldName(f))
	}
	opts = append(opts,
		masq.WithFieldName("token"),
		masq.WithFieldName("password"),
		masq.WithFieldName("Password"),
		masq.WithFieldName("dsn"),
		masq.WithFieldName("DSN"),
		masq.WithFieldPrefix("secret"),
		masq.WithFieldPrefix("api_key"),
		masq.WithRegex(bearerPattern),
		masq.WithRegex(jwtPattern),
		masq.WithRegex(apiKeyPattern),
		masq.WithRegex(dsnPattern),
	)
	return masq.New(opts...)
}
