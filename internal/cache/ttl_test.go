package cache

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"coinboard/internal/domain"
	"coinboard/internal/infra/storage"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache() (*TTLCache, *storage.MemoryStore, *fakeClock) {
	clock := &fakeClock{t: time.UnixMilli(1_700_000_000_000)}
	store := storage.NewMemoryStore()
	return New(store, WithClock(clock.Now)), store, clock
}

func TestTTLCache_NeverWritten(t *testing.T) {
	c, _, _ := newTestCache()

	if _, ok := c.ReadFresh("coinsData", time.Hour); ok {
		t.Error("ReadFresh should report absent for a key never written")
	}
	if _, ok := c.ReadAny("coinsData"); ok {
		t.Error("ReadAny should report absent for a key never written")
	}
}

func TestTTLCache_FreshnessWindow(t *testing.T) {
	const ttl = 5 * time.Minute
	c, _, clock := newTestCache()
	written := clock.Now()

	if _, err := c.Write("coinsData", []byte(`[1]`)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	tests := []struct {
		name      string
		offset    time.Duration
		wantFresh bool
	}{
		{"at write time", 0, true},
		{"mid window", 2 * time.Minute, true},
		{"last millisecond", ttl - time.Millisecond, true},
		{"exactly ttl", ttl, false},
		{"long after", 48 * time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock.t = written.Add(tt.offset)

			e, ok := c.ReadFresh("coinsData", ttl)
			if ok != tt.wantFresh {
				t.Fatalf("ReadFresh ok = %v, want %v", ok, tt.wantFresh)
			}
			if ok && (string(e.Value) != `[1]` || e.TTL != ttl) {
				t.Errorf("unexpected entry %+v", e)
			}

			stale, ok := c.ReadAny("coinsData")
			if !ok {
				t.Fatal("ReadAny should always find a written entry")
			}
			if string(stale.Value) != `[1]` {
				t.Errorf("ReadAny value = %q", stale.Value)
			}
			if !stale.StoredAt.Equal(written) {
				t.Errorf("StoredAt = %v, want %v", stale.StoredAt, written)
			}
		})
	}
}

func TestTTLCache_StorageLayout(t *testing.T) {
	c, store, clock := newTestCache()

	c.Write("coinList", []byte(`[]`))

	if v, _ := store.Get("coinList"); v != `[]` {
		t.Errorf("value slot = %q", v)
	}
	if v, _ := store.Get("coinListTimestamp"); v != "1700000000000" {
		t.Errorf("timestamp slot = %q, want epoch millis", v)
	}

	clock.Advance(time.Second)
	c.Write("coinList", []byte(`[1]`))
	if v, _ := store.Get("coinListTimestamp"); v != "1700000001000" {
		t.Errorf("timestamp slot after rewrite = %q", v)
	}
}

func TestTTLCache_StoredAtNeverDecreases(t *testing.T) {
	c, _, clock := newTestCache()
	first := clock.Now()

	c.Write("coinsData", []byte(`"a"`))
	clock.Advance(-time.Hour) // clock stepped back
	e, err := c.Write("coinsData", []byte(`"b"`))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if !e.StoredAt.Equal(first) {
		t.Errorf("StoredAt = %v, want %v", e.StoredAt, first)
	}
	got, _ := c.ReadAny("coinsData")
	if string(got.Value) != `"b"` {
		t.Errorf("value = %q, want the latest write", got.Value)
	}
}

func TestTTLCache_FutureTimestampIsStale(t *testing.T) {
	const ttl = 5 * time.Minute
	c, store, clock := newTestCache()
	ahead := clock.Now().Add(time.Hour)
	store.Put("coinsData", `[1]`)
	store.Put("coinsDataTimestamp", strconv.FormatInt(ahead.UnixMilli(), 10))

	clock.Advance(50 * time.Minute)
	if _, ok := c.ReadFresh("coinsData", ttl); ok {
		t.Error("an entry stamped in the future must not be fresh")
	}
	if _, ok := c.ReadAny("coinsData"); !ok {
		t.Error("ReadAny should still return the entry")
	}

	// A rewrite keeps the later stamp, which stays stale until the clock passes it.
	e, err := c.Write("coinsData", []byte(`[2]`))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !e.StoredAt.Equal(ahead) {
		t.Errorf("StoredAt = %v, want %v", e.StoredAt, ahead)
	}
	if _, ok := c.ReadFresh("coinsData", ttl); ok {
		t.Error("rewritten entry is still stamped in the future")
	}

	clock.Advance(11 * time.Minute)
	if _, ok := c.ReadFresh("coinsData", ttl); !ok {
		t.Error("entry should be fresh once the clock passes its stamp")
	}
}

func TestTTLCache_CorruptTimestamp(t *testing.T) {
	c, store, _ := newTestCache()
	store.Put("coinsData", `[1]`)
	store.Put("coinsDataTimestamp", "yesterday")

	if _, ok := c.ReadAny("coinsData"); ok {
		t.Error("an unreadable timestamp should count as never written")
	}
}

type brokenStore struct {
	*storage.MemoryStore
}

func (b brokenStore) Put(key, value string) error {
	b.MemoryStore.Put(key, value)
	return &domain.StorageError{Op: "put", Key: key, Err: errors.New("quota exceeded")}
}

func TestTTLCache_WriteReportsStorageFailure(t *testing.T) {
	clock := &fakeClock{t: time.UnixMilli(1_700_000_000_000)}
	c := New(brokenStore{storage.NewMemoryStore()}, WithClock(clock.Now))

	_, err := c.Write("coinsData", []byte(`[]`))
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}

	// The value is still served from the session's memory.
	if _, ok := c.ReadFresh("coinsData", time.Minute); !ok {
		t.Error("entry should remain readable after a storage failure")
	}
}
