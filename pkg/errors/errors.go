package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies an error into one of the conditions the pipeline
// distinguishes between.
type Kind string

const (
	// KindSourceNotFound means the profile or input document does not exist.
	// Fatal for the run; no partial output is written.
	KindSourceNotFound Kind = "source_not_found"

	// KindAccessDenied means the source is private or requires authentication.
	// Fatal for the run.
	KindAccessDenied Kind = "access_denied"

	// KindFetch is a transient failure fetching a single item. Recovered
	// locally: the item is skipped and counted in the failure tally.
	KindFetch Kind = "fetch"

	// KindMalformedRecord means a raw node is missing required fields.
	// Recovered locally by rejecting just that record.
	KindMalformedRecord Kind = "malformed_record"

	// KindEmptyCollection means there is nothing to analyze. Non-fatal
	// terminal state; no report file is written.
	KindEmptyCollection Kind = "empty_collection"

	// KindStructureTooDeep means the edge search exceeded its depth ceiling.
	KindStructureTooDeep Kind = "structure_too_deep"

	KindNetwork     Kind = "network"
	KindRateLimit   Kind = "rate_limit"
	KindServerError Kind = "server_error"
	KindUnknown     Kind = "unknown"
)

// Error carries a kind alongside the message so callers can branch on the
// condition without string matching.
type Error struct {
	Kind    Kind
	Message string
	Code    int
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// New creates an Error of the given kind.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewWithCode creates an Error carrying an HTTP status code.
func NewWithCode(kind Kind, code int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Code: code}
}

// IsKind reports whether err is, or wraps, an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Kind == kind
}

// IsFatal reports whether an error kind aborts the whole run. Fatal errors
// never undo already-completed disk writes.
func IsFatal(kind Kind) bool {
	switch kind {
	case KindSourceNotFound, KindAccessDenied:
		return true
	default:
		return false
	}
}

// IsRetryable reports whether an error kind is worth retrying at the
// transport layer before it is surfaced as a fetch failure.
func IsRetryable(kind Kind) bool {
	switch kind {
	case KindNetwork, KindRateLimit, KindServerError:
		return true
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error.
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case 429: // Too Many Requests
		return true
	case 500, 502, 503, 504:
		return true
	case 401, 403, 404:
		return false
	default:
		return statusCode >= 500
	}
}
