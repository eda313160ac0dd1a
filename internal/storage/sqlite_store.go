package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	key        TEXT PRIMARY KEY,
	expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_expires_at ON snapshots(expires_at);
`

// sqliteStore implements a Store backed by SQLite.
type sqliteStore struct {
	db      *sql.DB
	ttl     time.Duration
	cleanup *cleanupGate
	now     func() time.Time
}

func openSQLite(path string, opts Options) (Store, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}

	return &sqliteStore{
		db:      db,
		ttl:     opts.SnapshotTTL,
		cleanup: newCleanupGate(opts.CleanupInterval, time.Now()),
		now:     time.Now,
	}, nil
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteStore) SeenSnapshot(key string) (bool, error) {
	if s == nil || s.db == nil {
		return false, nil
	}

	now := s.now()
	if err := s.cleanup.run(now, s.sweep); err != nil {
		return false, err
	}

	var expiresAt int64
	err := s.db.QueryRow(`SELECT expires_at FROM snapshots WHERE key = ?`, key).Scan(&expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query snapshot: %w", err)
	}
	if expiresAt > now.Unix() {
		return true, nil
	}

	if _, err := s.db.Exec(`DELETE FROM snapshots WHERE key = ?`, key); err != nil {
		return false, fmt.Errorf("delete expired snapshot: %w", err)
	}
	return false, nil
}

func (s *sqliteStore) MarkSnapshot(key string) error {
	if s == nil || s.db == nil {
		return nil
	}

	now := s.now()
	if err := s.cleanup.run(now, s.sweep); err != nil {
		return err
	}

	_, err := s.db.Exec(
		`INSERT INTO snapshots (key, expires_at) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET expires_at = excluded.expires_at`,
		key, now.Add(s.ttl).Unix(),
	)
	if err != nil {
		return fmt.Errorf("mark snapshot: %w", err)
	}
	return nil
}

func (s *sqliteStore) sweep(now time.Time) error {
	if _, err := s.db.Exec(`DELETE FROM snapshots WHERE expires_at <= ?`, now.Unix()); err != nil {
		return fmt.Errorf("sweep expired snapshots: %w", err)
	}
	return nil
}

func (s *sqliteStore) count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&n)
	return n, err
}
