package backtype

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const redactedKey = "REDACTED"

func (c *Client) buildURL(path string, p *Params) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	b.WriteString(path)
	b.WriteString("?" + apiKeyParam + "=")
	b.WriteString(url.QueryEscape(c.apiKey))
	if enc := p.Encode(); enc != "" {
		b.WriteByte('&')
		b.WriteString(enc)
	}
	return b.String()
}

// redact hides the API key in s, which may be a URL or an error message containing one.
func (c *Client) redact(s string) string {
	if c.apiKey == "" {
		return s
	}
	masked := apiKeyParam + "=" + redactedKey
	s = strings.ReplaceAll(s, apiKeyParam+"="+url.QueryEscape(c.apiKey), masked)
	return strings.ReplaceAll(s, apiKeyParam+"="+c.apiKey, masked)
}

func (c *Client) headers() map[string]string {
	return map[string]string{"Accept": "application/json"}
}

// fetch is the single round trip every endpoint funnels through.
func (c *Client) fetch(ctx context.Context, e Endpoint, identifier, path string, p *Params) (Payload, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	reqURL := c.buildURL(path, p)
	safeURL := c.redact(reqURL)

	start := time.Now()
	resp, err := c.http.Get(ctx, reqURL, c.headers())
	elapsed := time.Since(start)

	if err != nil {
		terr := &TransportError{
			Endpoint: e,
			URL:      safeURL,
			Err:      &redactedError{msg: c.redact(err.Error()), err: err},
		}
		c.observe(RequestInfo{Endpoint: e, Identifier: identifier, URL: safeURL, Duration: elapsed, Err: terr}, outcomeTransportError)
		return nil, terr
	}

	body := resp.Body()
	status := resp.StatusCode()
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		herr := &HTTPError{Endpoint: e, URL: safeURL, StatusCode: status, Body: body}
		c.observe(RequestInfo{Endpoint: e, Identifier: identifier, URL: safeURL, StatusCode: status, Bytes: len(body), Duration: elapsed, Err: herr}, outcomeHTTPError)
		return nil, herr
	}

	c.observe(RequestInfo{Endpoint: e, Identifier: identifier, URL: safeURL, StatusCode: status, Bytes: len(body), Duration: elapsed}, outcomeSuccess)
	return Payload(body), nil
}

func (c *Client) observe(info RequestInfo, outcome string) {
	requestsTotal.WithLabelValues(string(info.Endpoint), outcome).Inc()
	requestDuration.WithLabelValues(string(info.Endpoint)).Observe(info.Duration.Seconds())

	fields := map[string]any{
		"endpoint":    string(info.Endpoint),
		"identifier":  info.Identifier,
		"url":         info.URL,
		"status_code": info.StatusCode,
		"bytes":       info.Bytes,
		"elapsed_ms":  info.Duration.Milliseconds(),
	}
	if info.Err != nil {
		fields["error"] = info.Err.Error()
		c.log.WarnObj("backtype request failed", "backtype_request", fields)
	} else {
		c.log.DebugObj("backtype request completed", "backtype_request", fields)
	}

	if c.hook != nil {
		c.hook(info)
	}
}
