package backtype

import (
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/backtype-go/pkg/httpclient"
)

// Option configures a Client during construction in New.
type Option func(*Client) error

// WithHTTPClient replaces the resty-backed transport. WithTimeout and WithUserAgent do not
// apply to a caller supplied client.
func WithHTTPClient(hc httpclient.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client must not be nil")
		}
		c.http = hc
		return nil
	}
}

// WithBaseURL points the client at a different API root, e.g. a test server.
func WithBaseURL(base string) Option {
	return func(c *Client) error {
		base = strings.TrimRight(strings.TrimSpace(base), "/")
		if base == "" {
			return fmt.Errorf("base url must not be empty")
		}
		c.baseURL = base
		return nil
	}
}

// WithImageBaseURL overrides the prefix used by ImageURL.
func WithImageBaseURL(base string) Option {
	return func(c *Client) error {
		base = strings.TrimSpace(base)
		if base == "" {
			return fmt.Errorf("image base url must not be empty")
		}
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		c.imageBase = base
		return nil
	}
}

// WithTimeout bounds each request made by the default transport. The value must be > 0.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.timeout = d
		return nil
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) error {
		c.userAgent = strings.TrimSpace(ua)
		return nil
	}
}

// WithDecoder replaces encoding/json as the decoder used by Decode.
func WithDecoder(d Decoder) Option {
	return func(c *Client) error {
		if d == nil {
			return fmt.Errorf("decoder must not be nil")
		}
		c.decoder = d
		return nil
	}
}

// WithLogger routes request logging to log.
func WithLogger(log Logger) Option {
	return func(c *Client) error {
		c.log = log
		return nil
	}
}

// WithDebugLogger makes the default transport dump every request and response to log,
// with the API key redacted. It has no effect together with WithHTTPClient.
func WithDebugLogger(log httpclient.Logger) Option {
	return func(c *Client) error {
		c.debugLog = log
		return nil
	}
}

// WithRequestHook registers fn to observe every completed request.
func WithRequestHook(fn RequestHook) Option {
	return func(c *Client) error {
		c.hook = fn
		return nil
	}
}
