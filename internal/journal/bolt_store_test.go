package journal

import (
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"
)

func TestBoltStoreRecordsNewestFirst(t *testing.T) {
	store, err := NewStore("bbolt", filepath.Join(t.TempDir(), "nested", "journal.db"), Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	for _, ep := range []string{"user_profile", "comments_search", "user_followers"} {
		if err := store.Record(Entry{Endpoint: ep, StatusCode: 200}); err != nil {
			t.Fatalf("Record %s: %v", ep, err)
		}
	}

	entries, err := store.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Endpoint != "user_followers" || entries[1].Endpoint != "comments_search" {
		t.Fatalf("unexpected order %+v", entries)
	}
	if entries[0].At.IsZero() || !entries[0].OK() {
		t.Fatalf("entry not stamped: %+v", entries[0])
	}

	all, err := store.Recent(0)
	if err != nil || len(all) != 3 {
		t.Fatalf("Recent(0) = %d entries, err=%v", len(all), err)
	}
}

func TestBoltStoreExpiresEntries(t *testing.T) {
	raw, err := openBolt(filepath.Join(t.TempDir(), "journal.db"), Options{
		EntryTTL:        time.Minute,
		CleanupInterval: time.Minute,
	})
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := raw.(*boltStore)
	defer store.Close()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }
	store.lastCleanup.Store(base.Unix())

	if err := store.Record(Entry{Endpoint: "old", Error: "backtype user_profile: status 404"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	store.now = func() time.Time { return base.Add(2 * time.Minute) }
	entries, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected expired entry hidden, got %+v", entries)
	}

	// The next write triggers cleanup of the expired record.
	if err := store.Record(Entry{Endpoint: "new"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	var count int
	if err := store.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket([]byte(requestBucket)).Stats().KeyN
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected cleanup to leave 1 record, got %d", count)
	}
}

func TestBoltStorePrunesOnFirstRecordAfterReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	opts := Options{EntryTTL: time.Minute, CleanupInterval: time.Hour}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var keys int
	for i := 0; i < 5; i++ {
		raw, err := openBolt(path, opts)
		if err != nil {
			t.Fatalf("openBolt #%d: %v", i, err)
		}
		store := raw.(*boltStore)
		store.now = func() time.Time { return base.Add(time.Duration(i) * 2 * time.Minute) }

		if err := store.Record(Entry{Endpoint: "user_profile"}); err != nil {
			t.Fatalf("Record #%d: %v", i, err)
		}
		if err := store.db.View(func(tx *bolt.Tx) error {
			keys = tx.Bucket([]byte(requestBucket)).Stats().KeyN
			return nil
		}); err != nil {
			t.Fatalf("view: %v", err)
		}
		if err := store.Close(); err != nil {
			t.Fatalf("Close #%d: %v", i, err)
		}
		if keys != 1 {
			t.Fatalf("cycle %d: expected expired entries pruned, %d stored", i, keys)
		}
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.Record(Entry{Endpoint: "x"}); err != nil {
		t.Fatalf("noop store Record: %v", err)
	}
	if entries, err := store.Recent(5); err != nil || entries != nil {
		t.Fatalf("noop Recent = %v, %v", entries, err)
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "x", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
	if _, err := NewStore("bbolt", " ", Options{}); err == nil {
		t.Fatalf("expected error for missing path")
	}
}
