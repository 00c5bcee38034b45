package backtype

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrInvalidParameter is returned, wrapped, when a call is rejected locally before any
// network I/O.
var ErrInvalidParameter = errors.New("invalid parameter")

// TransportError reports that no HTTP response was received: DNS, connection, timeout or
// cancellation failures.
type TransportError struct {
	Endpoint Endpoint
	// URL is the request URL with the API key redacted.
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backtype %s: transport: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the failure was a timeout or an expired context deadline.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// HTTPError reports a non-2xx response. Body holds the full response body.
type HTTPError struct {
	Endpoint   Endpoint
	URL        string
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("backtype %s: status %d body: %s", e.Endpoint, e.StatusCode, responseSnippet(e.Body))
}

// IsTransport reports whether err is or wraps a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsHTTP reports whether err is or wraps an *HTTPError.
func IsHTTP(err error) bool {
	var he *HTTPError
	return errors.As(err, &he)
}

// IsInvalidParameter reports whether err was a local validation failure.
func IsInvalidParameter(err error) bool { return errors.Is(err, ErrInvalidParameter) }

// StatusCode extracts the HTTP status from an *HTTPError in err's chain.
func StatusCode(err error) (int, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode, true
	}
	return 0, false
}

func invalidParam(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}

// redactedError keeps the cause for errors.Is/As while replacing its message.
type redactedError struct {
	msg string
	err error
}

func (r *redactedError) Error() string { return r.msg }
func (r *redactedError) Unwrap() error { return r.err }

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
