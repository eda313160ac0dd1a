package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const snapshotBucket = "snapshots"

// boltStore implements a Store backed by BoltDB.
type boltStore struct {
	db      *bolt.DB
	ttl     time.Duration
	cleanup *cleanupGate
	now     func() time.Time
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(snapshotBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	return &boltStore{
		db:      db,
		ttl:     opts.SnapshotTTL,
		cleanup: newCleanupGate(opts.CleanupInterval, time.Now()),
		now:     time.Now,
	}, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create storage directory: %w", err)
	}
	return nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// SeenSnapshot reports whether key was marked and has not expired.
// Expired entries found on lookup are deleted in the same transaction.
func (b *boltStore) SeenSnapshot(key string) (bool, error) {
	if b == nil || b.db == nil {
		return false, nil
	}

	now := b.now()
	if err := b.cleanup.run(now, b.sweep); err != nil {
		return false, err
	}

	var seen bool
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := snapshots(tx)
		if err != nil {
			return err
		}

		k := []byte(key)
		expiry, ok := decodeExpiry(bucket.Get(k))
		if ok && expiry.After(now) {
			seen = true
			return nil
		}
		if bucket.Get(k) != nil {
			return bucket.Delete(k)
		}
		return nil
	})
	return seen, err
}

// MarkSnapshot records key until the TTL elapses.
func (b *boltStore) MarkSnapshot(key string) error {
	if b == nil || b.db == nil {
		return nil
	}

	now := b.now()
	if err := b.cleanup.run(now, b.sweep); err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := snapshots(tx)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), encodeExpiry(now.Add(b.ttl)))
	})
}

func (b *boltStore) sweep(now time.Time) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := snapshots(tx)
		if err != nil {
			return err
		}

		// Deleting under a live cursor skips siblings, so collect first.
		var expired [][]byte
		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			expiry, ok := decodeExpiry(v)
			if !ok || !expiry.After(now) {
				expired = append(expired, append([]byte(nil), k...))
			}
		}
		for _, k := range expired {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *boltStore) count() (int, error) {
	var n int
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket, err := snapshots(tx)
		if err != nil {
			return err
		}
		n = bucket.Stats().KeyN
		return nil
	})
	return n, err
}

func snapshots(tx *bolt.Tx) (*bolt.Bucket, error) {
	bucket := tx.Bucket([]byte(snapshotBucket))
	if bucket == nil {
		return nil, fmt.Errorf("snapshot bucket missing")
	}
	return bucket, nil
}
