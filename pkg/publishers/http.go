package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samvad-hq/backtype-go/pkg/httpclient"
)

// EventIDHeader carries Event.ID on webhook deliveries so receivers can de-duplicate.
const EventIDHeader = "X-Backtype-Event-Id"

// httpPublisher posts each event as JSON to a webhook.
type httpPublisher struct {
	id     string
	cfg    HTTPPublisherConfig
	client *resty.Client
	log    Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}
	timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
	return &httpPublisher{
		id:     cfg.ID,
		cfg:    *cfg.HTTP,
		client: httpclient.NewRestyHTTPClient(timeout),
		log:    ensureLogger(log),
	}, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return TypeHTTP }
func (h *httpPublisher) Close() error { return nil }

func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeaders(h.cfg.Headers).
		SetHeader("Content-Type", "application/json").
		SetHeader(EventIDHeader, evt.ID).
		SetBody(body).
		Execute(h.cfg.Method, h.cfg.URL)
	if err != nil {
		return fmt.Errorf("deliver to %s: %w", h.cfg.URL, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("webhook answered %d: %s", resp.StatusCode(), bodySnippet(resp.Body()))
	}

	h.log.DebugObj("webhook accepted event", "publisher_http_delivery", map[string]any{
		"publisher_id": h.id,
		"event_id":     evt.ID,
		"status_code":  resp.StatusCode(),
	})
	return nil
}

func bodySnippet(body []byte) string {
	const limit = 512
	if len(body) > limit {
		body = body[:limit]
	}
	return strings.TrimSpace(string(body))
}
