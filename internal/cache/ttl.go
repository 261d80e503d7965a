// Package cache layers expiration metadata over a domain.KeyValueStore.
//
// Each entry occupies two slots: the JSON value under its key and the write time,
// as decimal epoch milliseconds, under key+"Timestamp". Freshness and presence are
// separate queries so callers can fall back to stale data when a refetch fails.
package cache

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"coinboard/internal/domain"
)

// TimestampSuffix is appended to a key to name its timestamp slot.
const TimestampSuffix = "Timestamp"

// Entry is a cached value with its write time.
type Entry struct {
	Key      string
	Value    []byte
	StoredAt time.Time
	TTL      time.Duration // zero when read with ReadAny
}

// Age returns how old the entry is at now.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.StoredAt)
}

// TTLCache decides staleness for values kept in a persistent store.
type TTLCache struct {
	store domain.KeyValueStore
	now   func() time.Time
	mu    sync.Mutex // serializes the read-compare-write of timestamps
}

// Option configures a TTLCache.
type Option func(*TTLCache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *TTLCache) { c.now = now }
}

// New creates a TTLCache over store.
func New(store domain.KeyValueStore, opts ...Option) *TTLCache {
	c := &TTLCache{store: store, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReadFresh returns the entry only if it was written less than ttl ago.
// An entry stamped in the future (clock stepped back, or a store carried over
// from another host) is never fresh.
func (c *TTLCache) ReadFresh(key string, ttl time.Duration) (Entry, bool) {
	e, ok := c.ReadAny(key)
	if !ok {
		return Entry{}, false
	}
	if age := e.Age(c.now()); age < 0 || age >= ttl {
		return Entry{}, false
	}
	e.TTL = ttl
	return e, true
}

// ReadAny returns the entry regardless of age.
// A value without a readable timestamp counts as never written.
func (c *TTLCache) ReadAny(key string) (Entry, bool) {
	storedAt, ok := c.storedAt(key)
	if !ok {
		return Entry{}, false
	}
	value, ok := c.store.Get(key)
	if !ok {
		return Entry{}, false
	}
	return Entry{Key: key, Value: []byte(value), StoredAt: storedAt}, true
}

// Write stores value with the current time. The stored time never moves backwards
// for a key, even if the clock does.
// The returned error is a *domain.StorageError; the entry is still readable for the
// rest of the session when the store degrades to memory.
func (c *TTLCache) Write(key string, value []byte) (Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	storedAt := time.UnixMilli(c.now().UnixMilli())
	if prev, ok := c.storedAt(key); ok && prev.After(storedAt) {
		storedAt = prev
	}

	// Value first: an interrupted write leaves the new value with an older timestamp.
	errValue := c.store.Put(key, string(value))
	errStamp := c.store.Put(key+TimestampSuffix, strconv.FormatInt(storedAt.UnixMilli(), 10))

	return Entry{Key: key, Value: value, StoredAt: storedAt}, errors.Join(errValue, errStamp)
}

func (c *TTLCache) storedAt(key string) (time.Time, bool) {
	raw, ok := c.store.Get(key + TimestampSuffix)
	if !ok {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}
