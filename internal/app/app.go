package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/samvad-hq/backtype-go/internal/config"
	"github.com/samvad-hq/backtype-go/internal/journal"
	"github.com/samvad-hq/backtype-go/internal/logger"
	"github.com/samvad-hq/backtype-go/pkg/backtype"
	"github.com/samvad-hq/backtype-go/pkg/publishers"
)

// App is the command line runtime. It owns the API client, the request journal and,
// when a publishers file is configured, the fan-out to downstream sinks.
//
// The journal file is opened only for the duration of each write or read, so several
// processes can share it.
type App struct {
	cfg         *config.Config
	client      *backtype.Client
	openJournal func() (journal.Store, error)
	journalMu   sync.Mutex
	fanout      *publishers.Fanout
	log         logger.Logger
}

// New builds the runtime from cfg. Extra client options are applied after the ones
// derived from cfg.
func New(ctx context.Context, cfg *config.Config, log logger.Logger, opts ...backtype.Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	openJournal := func() (journal.Store, error) {
		return journal.NewStore(cfg.JournalType, cfg.JournalPath, journal.Options{
			EntryTTL:        cfg.JournalTTL,
			CleanupInterval: cfg.JournalCleanupInterval,
		})
	}
	store, err := openJournal()
	if err != nil {
		return nil, fmt.Errorf("init journal: %w", err)
	}
	if err := store.Close(); err != nil {
		return nil, fmt.Errorf("init journal: %w", err)
	}
	log.DebugObj("journal initialized", "journal_config", map[string]any{
		"type":                     cfg.JournalType,
		"path":                     cfg.JournalPath,
		"ttl_seconds":              int(cfg.JournalTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.JournalCleanupInterval.Seconds()),
	})

	a := &App{cfg: cfg, openJournal: openJournal, log: log}

	clientOpts := []backtype.Option{
		backtype.WithBaseURL(cfg.APIBase),
		backtype.WithImageBaseURL(cfg.ImageBase),
		backtype.WithTimeout(cfg.HTTPTimeout),
		backtype.WithUserAgent(cfg.UserAgent),
		backtype.WithLogger(log),
		backtype.WithRequestHook(a.record),
	}
	if cfg.HTTPDebug && logger.S != nil {
		clientOpts = append(clientOpts, backtype.WithDebugLogger(logger.S))
	}
	clientOpts = append(clientOpts, opts...)

	client, err := backtype.New(cfg.APIKey, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("init backtype client: %w", err)
	}
	a.client = client

	if cfg.PublishersFile != "" {
		fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
		if err != nil {
			return nil, err
		}
		a.fanout = fanout
	}

	return a, nil
}

func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	publisherReg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabledPublishers := publisherReg.Enabled()
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.DebugObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})
	return publishers.NewFanout(pubClients), nil
}

// Client exposes the configured API client.
func (a *App) Client() *backtype.Client { return a.client }

// Fetch calls endpoint e and, when publish is set, forwards the payload to every
// configured publisher. A publish failure is returned alongside the payload.
func (a *App) Fetch(ctx context.Context, e backtype.Endpoint, identifier string, p *backtype.Params, publish bool) (backtype.Payload, error) {
	if a == nil || a.client == nil {
		return nil, fmt.Errorf("app is not initialized")
	}

	payload, err := a.client.Call(ctx, e, identifier, p)
	if err != nil {
		return nil, err
	}
	if !publish {
		return payload, nil
	}
	if a.fanout.Size() == 0 {
		return payload, fmt.Errorf("publish requested but no publishers are configured")
	}

	reqURL, err := a.client.RequestURL(e, identifier, p)
	if err != nil {
		return payload, err
	}
	evt := publishers.NewEvent(string(e), identifier, p.Map(), a.client.Redact(reqURL), payload)
	delivered, err := a.fanout.Publish(ctx, evt)
	a.log.InfoObj("payload published", "publish_meta", map[string]any{
		"event_id":   evt.ID,
		"endpoint":   string(e),
		"delivered":  delivered,
		"publishers": a.fanout.Size(),
	})
	if err != nil {
		return payload, fmt.Errorf("publish payload: %w", err)
	}
	return payload, nil
}

// History returns the most recent journal entries, newest first.
func (a *App) History(limit int) ([]journal.Entry, error) {
	var entries []journal.Entry
	err := a.withJournal(func(s journal.Store) error {
		var err error
		entries, err = s.Recent(limit)
		return err
	})
	return entries, err
}

// withJournal opens the journal, runs fn and closes it again.
func (a *App) withJournal(fn func(journal.Store) error) error {
	a.journalMu.Lock()
	defer a.journalMu.Unlock()

	store, err := a.openJournal()
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	return errors.Join(fn(store), store.Close())
}

// record is the client request hook; journal failures are logged, never surfaced.
func (a *App) record(info backtype.RequestInfo) {
	entry := journal.Entry{
		Endpoint:   string(info.Endpoint),
		Identifier: info.Identifier,
		URL:        info.URL,
		StatusCode: info.StatusCode,
		Bytes:      info.Bytes,
		Duration:   info.Duration,
	}
	if info.Err != nil {
		entry.Error = info.Err.Error()
	}
	if err := a.withJournal(func(s journal.Store) error { return s.Record(entry) }); err != nil {
		a.log.WarnObj("journal record failed", "error", err.Error())
	}
}

// Close releases the publishers.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	return a.fanout.Close()
}
