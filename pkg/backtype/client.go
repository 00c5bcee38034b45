// Package backtype is a client for the BackType comment-aggregation API v1.
//
// Every endpoint method issues a single blocking GET and returns the raw response body.
// Parsing is left to the caller; Client.Decode applies the configured decoder.
package backtype

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/backtype-go/pkg/httpclient"
)

const (
	// DefaultBaseURL is the API root every endpoint path is appended to.
	DefaultBaseURL = "http://api.backtype.com"
	// DefaultImageBaseURL prefixes image URLs built by ImageURL.
	DefaultImageBaseURL = "http://www.backtype.com/go/image/p/"

	apiKeyParam = "key"
)

// Payload is a response body returned verbatim.
type Payload []byte

func (p Payload) String() string { return string(p) }

// Decoder turns a payload into a Go value.
type Decoder func(data []byte, v any) error

// RequestInfo describes one completed fetch. URL has the API key redacted.
type RequestInfo struct {
	Endpoint   Endpoint
	Identifier string
	URL        string
	StatusCode int
	Bytes      int
	Duration   time.Duration
	Err        error
}

// RequestHook is invoked synchronously after every fetch.
type RequestHook func(RequestInfo)

// Client issues requests against the BackType API. It holds no mutable state after New
// and is safe for concurrent use.
type Client struct {
	apiKey    string
	baseURL   string
	imageBase string
	userAgent string
	timeout   time.Duration
	http      httpclient.Client
	decoder   Decoder
	log       Logger
	hook      RequestHook
	debugLog  httpclient.Logger
}

// New constructs a Client for apiKey. The key is sent as-is; the service decides whether
// it is valid.
func New(apiKey string, opts ...Option) (*Client, error) {
	c := &Client{
		apiKey:    apiKey,
		baseURL:   DefaultBaseURL,
		imageBase: DefaultImageBaseURL,
		timeout:   httpclient.DefaultTimeout,
		decoder:   json.Unmarshal,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClientWithOptions(httpclient.Options{
			Timeout:   c.timeout,
			UserAgent: c.userAgent,
			Debug:     c.debugLog != nil,
			Logger:    c.debugLog,
			Redact:    c.redact,
		})
	}
	c.log = ensureLogger(c.log)
	return c, nil
}

// CommentsSearch searches comments for q. Useful parameters: start and end (dates).
func (c *Client) CommentsSearch(ctx context.Context, q string, p *Params) (Payload, error) {
	return c.Call(ctx, EndpointCommentsSearch, q, p)
}

// CommentsConnect retrieves conversations related to url.
func (c *Client) CommentsConnect(ctx context.Context, url string, p *Params) (Payload, error) {
	return c.Call(ctx, EndpointCommentsConnect, url, p)
}

// CommentsConnectStats retrieves statistics on conversations related to url.
// Useful parameters: sources (comma separated) and sort.
func (c *Client) CommentsConnectStats(ctx context.Context, url string, p *Params) (Payload, error) {
	return c.Call(ctx, EndpointCommentsConnectStats, url, p)
}

// URLComments retrieves comments written by the author of the blog at url.
func (c *Client) URLComments(ctx context.Context, url string, p *Params) (Payload, error) {
	return c.Call(ctx, EndpointURLComments, url, p)
}

// PageComments retrieves excerpts of comments published on the page at url.
func (c *Client) PageComments(ctx context.Context, url string, p *Params) (Payload, error) {
	return c.Call(ctx, EndpointPageComments, url, p)
}

// PageCommentsStats retrieves comment statistics for the page at url.
func (c *Client) PageCommentsStats(ctx context.Context, url string, p *Params) (Payload, error) {
	return c.Call(ctx, EndpointPageCommentsStats, url, p)
}

// UserComments retrieves comments claimed by user.
func (c *Client) UserComments(ctx context.Context, user string, p *Params) (Payload, error) {
	return c.Call(ctx, EndpointUserComments, user, p)
}

// UserFollowers lists users following user.
func (c *Client) UserFollowers(ctx context.Context, user string, p *Params) (Payload, error) {
	return c.Call(ctx, EndpointUserFollowers, user, p)
}

// UserFollowing lists users followed by user.
func (c *Client) UserFollowing(ctx context.Context, user string, p *Params) (Payload, error) {
	return c.Call(ctx, EndpointUserFollowing, user, p)
}

// UserHomeFeed retrieves comments by authors user follows.
func (c *Client) UserHomeFeed(ctx context.Context, user string, p *Params) (Payload, error) {
	return c.Call(ctx, EndpointUserHomeFeed, user, p)
}

// UserProfile retrieves the profile of user.
func (c *Client) UserProfile(ctx context.Context, user string, p *Params) (Payload, error) {
	return c.Call(ctx, EndpointUserProfile, user, p)
}

// Call fetches endpoint e for identifier with optional parameters p (may be nil).
func (c *Client) Call(ctx context.Context, e Endpoint, identifier string, p *Params) (Payload, error) {
	path, params, err := e.resolve(identifier, p)
	if err != nil {
		return nil, err
	}
	return c.fetch(ctx, e, identifier, path, params)
}

// RequestURL returns the URL Call would fetch. The result contains the API key.
func (c *Client) RequestURL(e Endpoint, identifier string, p *Params) (string, error) {
	path, params, err := e.resolve(identifier, p)
	if err != nil {
		return "", err
	}
	return c.buildURL(path, params), nil
}

// Redact masks the API key wherever it appears as a key parameter in s.
func (c *Client) Redact(s string) string { return c.redact(s) }

// Fetch issues a GET for an arbitrary relative path such as "/user/backtype/profile.json".
func (c *Client) Fetch(ctx context.Context, path string, p *Params) (Payload, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, invalidParam("path %q must start with /", path)
	}
	if err := validateOptional(p, ""); err != nil {
		return nil, err
	}
	return c.fetch(ctx, endpointCustom, "", path, p)
}

// Decode decodes payload into v with the configured decoder.
func (c *Client) Decode(payload Payload, v any) error {
	if err := c.decoder(payload, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
