package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage remembers which player snapshots were already published.

// Store tracks published snapshot fingerprints.
type Store interface {
	Close() error
	SeenSnapshot(key string) (bool, error)
	MarkSnapshot(key string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	SnapshotTTL     time.Duration
	CleanupInterval time.Duration
}

const (
	TypeNone   = "none"
	TypeBBolt  = "bbolt"
	TypeSQLite = "sqlite"

	defaultSnapshotTTL     = 7 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", TypeNone, "disabled":
		return noopStore{}, nil
	case TypeBBolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	case TypeSQLite, "sqlite3":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("sqlite storage requires a path")
		}
		return openSQLite(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.SnapshotTTL <= 0 {
		opts.SnapshotTTL = defaultSnapshotTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                      { return nil }
func (noopStore) SeenSnapshot(string) (bool, error) { return false, nil }
func (noopStore) MarkSnapshot(string) error         { return nil }
