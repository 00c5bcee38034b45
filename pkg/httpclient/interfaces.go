package httpclient

import (
	"context"
	"net/http"
)

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	Header() http.Header
}

// Client abstracts HTTP calls so callers can inject fakes or different transports.
// A non-nil error means no response was received; status handling is left to the caller.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}
