package logseq

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the closed failure taxonomy shared by every layer above the
// client. No layer invents kinds of its own; callers branch on Kind for
// user-facing messaging and exit codes.
type Kind string

const (
	// KindUnauthorized: the API token is missing or was rejected.
	KindUnauthorized Kind = "unauthorized"
	// KindNotFound: the target block or page does not exist.
	KindNotFound Kind = "not_found"
	// KindInvalidArgument: the request itself is malformed (bad method,
	// bad args). Retrying cannot help.
	KindInvalidArgument Kind = "invalid_argument"
	// KindUnavailable: connection refused, timeout, or retries exhausted.
	KindUnavailable Kind = "unavailable"
	// KindRemoteFault: the service reported an internal error. Retried
	// inside the client; surfaces as KindUnavailable once retries run out.
	KindRemoteFault Kind = "remote_fault"
	// KindMalformedResponse: the response body is not decodable or does
	// not have the shape the operation requires.
	KindMalformedResponse Kind = "malformed_response"
	// KindCapabilityDisabled: the operation is gated behind a feature
	// flag that is off. Raised before any network I/O.
	KindCapabilityDisabled Kind = "capability_disabled"
)

// Error is a classified failure. It is constructed at the transport or
// materialization boundary and propagates unchanged to the MCP and CLI
// surfaces.
type Error struct {
	Kind    Kind
	Message string
	// Status is the underlying HTTP status code, 0 when the failure
	// never produced a response.
	Status int
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (HTTP %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Retryable reports whether the client may retry the failed attempt.
// Only remote faults are retryable; KindUnavailable already accounts for
// exhausted retries.
func (e *Error) Retryable() bool {
	return e.Kind == KindRemoteFault
}

// Errorf constructs a classified error with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// AsError extracts a classified error from an error chain.
func AsError(err error) (*Error, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsKind reports whether err carries the given classified kind.
func IsKind(err error, kind Kind) bool {
	ce, ok := AsError(err)
	return ok && ce.Kind == kind
}

// classifyStatus maps a non-2xx HTTP status to a classified error. Pure
// function of the observed status and body excerpt; performs no I/O.
func classifyStatus(status int, body string) *Error {
	const maxExcerpt = 500
	if len(body) > maxExcerpt {
		body = body[:maxExcerpt] + "...(truncated)"
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &Error{Kind: KindUnauthorized, Status: status, Message: "API token missing or rejected"}
	case status == http.StatusNotFound:
		return &Error{Kind: KindNotFound, Status: status, Message: "target entity not found"}
	case status == http.StatusTooManyRequests || status >= 500:
		return &Error{Kind: KindRemoteFault, Status: status, Message: body}
	case status >= 400:
		return &Error{Kind: KindInvalidArgument, Status: status, Message: body}
	default:
		return &Error{Kind: KindMalformedResponse, Status: status, Message: "unexpected status"}
	}
}
