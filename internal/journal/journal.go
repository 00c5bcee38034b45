// Package journal keeps a local, expiring log of API requests issued by the CLI.
// It records request metadata only; response bodies are never stored.
package journal

import (
	"fmt"
	"strings"
	"time"
)

// Entry is one recorded request. URL must already have the API key redacted.
type Entry struct {
	Endpoint   string        `json:"endpoint"`
	Identifier string        `json:"identifier"`
	URL        string        `json:"url"`
	StatusCode int           `json:"status_code"`
	Bytes      int           `json:"bytes"`
	Duration   time.Duration `json:"duration"`
	Error      string        `json:"error,omitempty"`
	At         time.Time     `json:"at"`
	ExpiresAt  time.Time     `json:"expires_at"`
}

// OK reports whether the request produced a payload.
func (e Entry) OK() bool { return e.Error == "" }

// Store persists request entries.
type Store interface {
	Close() error
	Record(e Entry) error
	Recent(limit int) ([]Entry, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	EntryTTL        time.Duration
	CleanupInterval time.Duration
}

const (
	defaultEntryTTL        = 7 * 24 * time.Hour
	defaultCleanupInterval = 6 * time.Hour
)

// NewStore creates the configured journal backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt journal requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported journal type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.EntryTTL <= 0 {
		opts.EntryTTL = defaultEntryTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                { return nil }
func (noopStore) Record(Entry) error          { return nil }
func (noopStore) Recent(int) ([]Entry, error) { return nil, nil }
