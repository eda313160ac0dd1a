package storage

import (
	"encoding/binary"
	"sync"
	"sync/atomic"
	"time"
)

const expiryValueBytes = 8

// cleanupGate lets one caller per interval run an expiry sweep.
type cleanupGate struct {
	mu       sync.Mutex
	last     atomic.Int64
	interval time.Duration
}

func newCleanupGate(interval time.Duration, now time.Time) *cleanupGate {
	g := &cleanupGate{interval: interval}
	g.last.Store(now.Unix())
	return g
}

func (g *cleanupGate) due(now time.Time) bool {
	return now.Sub(time.Unix(g.last.Load(), 0)) >= g.interval
}

// run calls sweep when the interval elapsed. The timestamp only advances on success.
func (g *cleanupGate) run(now time.Time, sweep func(time.Time) error) error {
	if !g.due(now) {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.due(now) {
		return nil
	}
	if err := sweep(now); err != nil {
		return err
	}
	g.last.Store(now.Unix())
	return nil
}

func encodeExpiry(t time.Time) []byte {
	buf := make([]byte, expiryValueBytes)
	binary.BigEndian.PutUint64(buf, uint64(t.Unix()))
	return buf
}

func decodeExpiry(value []byte) (time.Time, bool) {
	if len(value) != expiryValueBytes {
		return time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value))
	if unix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
