package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/samvad-hq/backtype-go/internal/config"
	"github.com/samvad-hq/backtype-go/internal/logger"
	"github.com/samvad-hq/backtype-go/pkg/backtype"
	"github.com/samvad-hq/backtype-go/pkg/publishers"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testConfig(t *testing.T, apiBase string) *config.Config {
	t.Helper()
	return &config.Config{
		APIKey:                 "k3y",
		APIBase:                apiBase,
		ImageBase:              backtype.DefaultImageBaseURL,
		UserAgent:              "backtype-go/test",
		HTTPTimeout:            2 * time.Second,
		JournalType:            "bbolt",
		JournalPath:            filepath.Join(t.TempDir(), "journal.db"),
		JournalTTL:             time.Hour,
		JournalCleanupInterval: time.Hour,
	}
}

func TestFetchRecordsJournalEntry(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/alice/profile.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"user":"alice"}`))
	}))
	defer api.Close()

	a, err := New(context.Background(), testConfig(t, api.URL), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	payload, err := a.Fetch(context.Background(), backtype.EndpointUserProfile, "alice", nil, false)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if payload.String() != `{"user":"alice"}` {
		t.Fatalf("payload = %s", payload)
	}
	if _, err := a.Fetch(context.Background(), backtype.EndpointUserFollowers, "alice", nil, false); !backtype.IsHTTP(err) {
		t.Fatalf("expected HTTP error, got %v", err)
	}

	entries, err := a.History(10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Endpoint != string(backtype.EndpointUserFollowers) || entries[0].StatusCode != http.StatusNotFound || entries[0].OK() {
		t.Fatalf("unexpected newest entry %+v", entries[0])
	}
	if entries[1].Identifier != "alice" || !entries[1].OK() {
		t.Fatalf("unexpected oldest entry %+v", entries[1])
	}
	for _, e := range entries {
		if strings.Contains(e.URL, "k3y") {
			t.Fatalf("journal leaked api key: %s", e.URL)
		}
	}
}

func TestFetchPublishesToConfiguredSinks(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"comments":[]}`))
	}))
	defer api.Close()

	var (
		mu       sync.Mutex
		received []publishers.Event
	)
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var evt publishers.Event
		if err := json.Unmarshal(raw, &evt); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mu.Lock()
		received = append(received, evt)
		mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	defer sink.Close()

	pubFile := filepath.Join(t.TempDir(), "publishers.yaml")
	raw := "publishers:\n  - id: sink\n    type: http\n    http:\n      url: " + sink.URL + "\n"
	if err := os.WriteFile(pubFile, []byte(raw), 0o644); err != nil {
		t.Fatalf("write publishers file: %v", err)
	}

	cfg := testConfig(t, api.URL)
	cfg.PublishersFile = pubFile
	a, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	p := backtype.NewParams().Set("sort", true)
	if _, err := a.Fetch(context.Background(), backtype.EndpointCommentsSearch, "golang", p, true); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 {
		t.Fatalf("expected 1 event, got %d", len(received))
	}
	evt := received[0]
	if evt.Endpoint != "comments_search" || evt.Identifier != "golang" || evt.Params["sort"] != "1" {
		t.Fatalf("unexpected event %+v", evt)
	}
	if string(evt.Payload) != `{"comments":[]}` {
		t.Fatalf("payload = %s", evt.Payload)
	}
	if strings.Contains(evt.RequestURL, "k3y") || !strings.Contains(evt.RequestURL, "key=REDACTED") {
		t.Fatalf("request url not redacted: %s", evt.RequestURL)
	}
}

func TestPublishWithoutPublishersFails(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer api.Close()

	cfg := testConfig(t, api.URL)
	cfg.JournalType = "none"
	a, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	payload, err := a.Fetch(context.Background(), backtype.EndpointUserProfile, "bob", nil, true)
	if err == nil {
		t.Fatalf("expected error when publishing without publishers")
	}
	if payload.String() != "{}" {
		t.Fatalf("payload should still be returned, got %q", payload)
	}
}

func TestNewRejectsNilConfig(t *testing.T) {
	if _, err := New(context.Background(), nil, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestHTTPDebugLogsWithoutAPIKey(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"user":"alice"}`))
	}))
	defer api.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	prev := logger.S
	logger.S = zap.New(core).Sugar()
	t.Cleanup(func() { logger.S = prev })

	cfg := testConfig(t, api.URL)
	cfg.HTTPDebug = true
	a, err := New(context.Background(), cfg, logger.NewZapLogger(logger.S))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if _, err := a.Fetch(context.Background(), backtype.EndpointUserProfile, "alice", nil, false); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	var dumped bool
	for _, entry := range logs.All() {
		line := entry.Message
		for _, f := range entry.Context {
			line += " " + f.String
			if f.Interface != nil {
				line += fmt.Sprint(f.Interface)
			}
		}
		if strings.Contains(line, "k3y") {
			t.Fatalf("api key in log: %q", line)
		}
		if strings.Contains(line, "/user/alice/profile.json?key=REDACTED") && strings.Contains(line, "REQUEST") {
			dumped = true
		}
	}
	if !dumped {
		t.Fatalf("expected a redacted request dump, got %d log entries", logs.Len())
	}
}

func TestJournalSharedBetweenRuntimes(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer api.Close()

	cfg := testConfig(t, api.URL)
	first, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("New first: %v", err)
	}
	defer first.Close()
	second, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("New second while first is open: %v", err)
	}
	defer second.Close()

	if _, err := first.Fetch(context.Background(), backtype.EndpointUserProfile, "alice", nil, false); err != nil {
		t.Fatalf("first Fetch: %v", err)
	}
	if _, err := second.Fetch(context.Background(), backtype.EndpointUserProfile, "bob", nil, false); err != nil {
		t.Fatalf("second Fetch: %v", err)
	}

	entries, err := first.History(10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(entries) != 2 || entries[0].Identifier != "bob" || entries[1].Identifier != "alice" {
		t.Fatalf("expected both runtimes journaled, got %+v", entries)
	}
}
