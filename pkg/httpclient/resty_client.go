package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Logger receives resty's warnings, errors and debug traces.
type Logger = resty.Logger

// Options tunes the resty-backed client.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	// Debug dumps request and response traces through Logger.
	Debug  bool
	Logger Logger
	// Redact rewrites every line resty logs. With Redact set and no Logger, resty's own
	// output is discarded, since its error lines quote the full request URL.
	Redact func(string) string
}

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a new RestyClient with the specified timeout.
func NewRestyClient(timeout time.Duration) *RestyClient {
	return NewRestyClientWithOptions(Options{Timeout: timeout})
}

// NewRestyClientWithOptions creates a RestyClient from opts.
func NewRestyClientWithOptions(opts Options) *RestyClient {
	return &RestyClient{client: newRestyBaseClient(opts)}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(Options{Timeout: timeout})
}

func newRestyBaseClient(opts Options) *resty.Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	c := resty.New()
	c.SetTimeout(opts.Timeout)
	if ua := strings.TrimSpace(opts.UserAgent); ua != "" {
		c.SetHeader("User-Agent", ua)
	}
	switch {
	case opts.Redact != nil:
		base := opts.Logger
		if base == nil {
			base = discardLogger{}
		}
		c.SetLogger(redactingLogger{base: base, redact: opts.Redact})
	case opts.Logger != nil:
		c.SetLogger(opts.Logger)
	}
	c.SetDebug(opts.Debug)
	return c
}

// redactingLogger formats each message and passes it through redact before base sees it.
type redactingLogger struct {
	base   Logger
	redact func(string) string
}

func (l redactingLogger) Errorf(format string, v ...interface{}) {
	l.base.Errorf("%s", l.redact(fmt.Sprintf(format, v...)))
}

func (l redactingLogger) Warnf(format string, v ...interface{}) {
	l.base.Warnf("%s", l.redact(fmt.Sprintf(format, v...)))
}

func (l redactingLogger) Debugf(format string, v ...interface{}) {
	l.base.Debugf("%s", l.redact(fmt.Sprintf(format, v...)))
}

type discardLogger struct{}

func (discardLogger) Errorf(string, ...interface{}) {}
func (discardLogger) Warnf(string, ...interface{})  {}
func (discardLogger) Debugf(string, ...interface{}) {}

// Get performs an HTTP GET request with the specified context, URL, and headers.
func (r *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte        { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int     { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Header() http.Header { return r.resp.Header() }
