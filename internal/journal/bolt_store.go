package journal

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const requestBucket = "requests"

// boltStore implements a Store backed by BoltDB. Keys are the bucket sequence in
// big-endian form so cursor order is insertion order.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	entryTTL        time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(requestBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		entryTTL:        opts.EntryTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	// lastCleanup starts at zero so the first Record after opening prunes; CLI processes
	// rarely live as long as the cleanup interval.
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Record appends e, stamping At and ExpiresAt.
func (b *boltStore) Record(e Entry) error {
	if b == nil || b.db == nil {
		return nil
	}

	now := b.now()
	if err := b.pruneExpired(now); err != nil {
		return err
	}
	if e.At.IsZero() {
		e.At = now.UTC()
	}
	e.ExpiresAt = e.At.Add(b.entryTTL)

	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode journal entry: %w", err)
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(requestBucket))
		if bucket == nil {
			return fmt.Errorf("request bucket missing")
		}
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		return bucket.Put(encodeKey(seq), raw)
	})
}

// Recent returns up to limit unexpired entries, newest first. limit <= 0 returns all.
func (b *boltStore) Recent(limit int) ([]Entry, error) {
	if b == nil || b.db == nil {
		return nil, nil
	}

	now := b.now()
	var out []Entry
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(requestBucket))
		if bucket == nil {
			return fmt.Errorf("request bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.Last(); k != nil; k, v = cursor.Prev() {
			e, ok := decodeEntry(v)
			if !ok || !e.ExpiresAt.After(now) {
				continue
			}
			out = append(out, e)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
		return nil
	})
	return out, err
}

// pruneExpired deletes expired entries at most once per cleanup interval. Keys follow
// insertion order and the TTL is fixed, so the scan stops at the first live entry.
func (b *boltStore) pruneExpired(now time.Time) error {
	if now.Sub(time.Unix(b.lastCleanup.Load(), 0)) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()
	if now.Sub(time.Unix(b.lastCleanup.Load(), 0)) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(requestBucket))
		if bucket == nil {
			return fmt.Errorf("request bucket missing")
		}

		var stale [][]byte
		c := bucket.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if e, ok := decodeEntry(v); ok && e.ExpiresAt.After(now) {
				break
			}
			stale = append(stale, append([]byte(nil), k...))
		}
		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return fmt.Errorf("delete expired entry: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("prune journal: %w", err)
	}
	b.lastCleanup.Store(now.Unix())
	return nil
}

func encodeKey(seq uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, seq)
	return buf
}

func decodeEntry(value []byte) (Entry, bool) {
	var e Entry
	if err := json.Unmarshal(value, &e); err != nil || e.ExpiresAt.IsZero() {
		return Entry{}, false
	}
	return e, true
}
