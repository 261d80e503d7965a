package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"coinboard/internal/cache"
	"coinboard/internal/domain"
	"coinboard/internal/infra/storage"

	"github.com/shopspring/decimal"
)

var errOffline = errors.New("network unreachable")

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.UnixMilli(1_700_000_000_000)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// fakeSource is an in-memory domain.MarketDataSource that counts calls.
type fakeSource struct {
	mu       sync.Mutex
	markets  domain.MarketSnapshot
	coins    []domain.CoinIdentity
	err      error
	gate     chan struct{} // when set, Markets blocks until closed or ctx ends
	started  chan struct{}
	calls    atomic.Int32
	detail   domain.CoinDetail
	history  []domain.PricePoint
	histErr  error
	histDays int
}

func (s *fakeSource) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *fakeSource) Markets(ctx context.Context) (domain.MarketSnapshot, error) {
	s.calls.Add(1)
	if s.gate != nil {
		if s.started != nil {
			select {
			case s.started <- struct{}{}:
			default:
			}
		}
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.markets, nil
}

func (s *fakeSource) CoinList(ctx context.Context) ([]domain.CoinIdentity, error) {
	s.calls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.coins, nil
}

func (s *fakeSource) Coin(ctx context.Context, id string) (domain.CoinDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return domain.CoinDetail{}, s.err
	}
	return s.detail, nil
}

func (s *fakeSource) PriceHistory(ctx context.Context, id string, days int) ([]domain.PricePoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.histDays = days
	if s.histErr != nil {
		return nil, s.histErr
	}
	return s.history, nil
}

func testSnapshot() domain.MarketSnapshot {
	return domain.MarketSnapshot{
		{
			ID: "bitcoin", Name: "Bitcoin", Symbol: "btc",
			CurrentPrice:      decimal.RequireFromString("64000.5"),
			MarketCap:         decimal.RequireFromString("1260000000000"),
			PriceChangePct24h: decimal.RequireFromString("1.25"),
			ImageURL:          "https://img/btc.png",
		},
		{
			ID: "ethereum", Name: "Ethereum", Symbol: "eth",
			CurrentPrice:      decimal.RequireFromString("3100"),
			MarketCap:         decimal.RequireFromString("372000000000"),
			PriceChangePct24h: decimal.RequireFromString("-0.4"),
			ImageURL:          "https://img/eth.png",
		},
	}
}

func testCoinList() []domain.CoinIdentity {
	return []domain.CoinIdentity{
		{ID: "bitcoin", Name: "Bitcoin", Symbol: "btc"},
		{ID: "ethereum", Name: "Ethereum", Symbol: "eth"},
		{ID: "ethereum-classic", Name: "Ethereum Classic", Symbol: "etc"},
		{ID: "tether", Name: "Tether", Symbol: "usdt"},
	}
}

func newTestFetcher(src *fakeSource) (*Fetcher, *storage.MemoryStore, *fakeClock) {
	clock := newFakeClock()
	store := storage.NewMemoryStore()
	return NewFetcher(src, cache.New(store, cache.WithClock(clock.Now))), store, clock
}
