package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"coinboard/internal/cache"
	"coinboard/internal/domain"
	"coinboard/internal/infra"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Storage keys of the cached data sets. Timestamps live under key+cache.TimestampSuffix.
const (
	KeyMarkets  = "coinsData"
	KeyCoinList = "coinList"
)

// HistoryDays is the span of the coin detail price history.
const HistoryDays = 30

// Status tags a successful load.
type Status int

const (
	// StatusFresh means the data is within its TTL or was just fetched.
	StatusFresh Status = iota
	// StatusDegraded means the refetch failed and the data is a stale cached copy.
	StatusDegraded
)

func (s Status) String() string {
	switch s {
	case StatusFresh:
		return "fresh"
	case StatusDegraded:
		return "degraded"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the outcome of a load that produced data.
// A load that produced nothing returns an error instead.
type Result[T any] struct {
	Data      T
	Status    Status
	StoredAt  time.Time // when Data was fetched from the network
	FromCache bool
	Cause     error // the refetch failure behind a degraded result
}

// Degraded reports whether the data may be outdated.
func (r Result[T]) Degraded() bool {
	return r.Status == StatusDegraded
}

// Fetcher loads remote data sets through the TTL cache.
//
// Each load is one of: a fresh cache hit (no request), a successful request written
// through to the cache, or a failed request answered from a stale entry. When the
// request fails and nothing is cached the error is returned. There are no retries.
// Concurrent loads of the same data set share a single request, which is not
// cancelled when one of the waiting callers gives up.
type Fetcher struct {
	source domain.MarketDataSource
	cache  *cache.TTLCache
	group  singleflight.Group
	logger *slog.Logger
}

// NewFetcher creates a Fetcher
func NewFetcher(source domain.MarketDataSource, c *cache.TTLCache) *Fetcher {
	return &Fetcher{
		source: source,
		cache:  c,
		logger: slog.Default().With("module", "fetcher"),
	}
}

// Markets loads the market snapshot, trusting a cached copy younger than ttl.
func (f *Fetcher) Markets(ctx context.Context, ttl time.Duration) (Result[domain.MarketSnapshot], error) {
	return load(ctx, f, KeyMarkets, ttl, f.source.Markets)
}

// CoinList loads the full coin identifier list, trusting a cached copy younger than ttl.
func (f *Fetcher) CoinList(ctx context.Context, ttl time.Duration) (Result[[]domain.CoinIdentity], error) {
	return load(ctx, f, KeyCoinList, ttl, f.source.CoinList)
}

// CoinDetail fetches a coin's detail and price history concurrently. Not cached.
func (f *Fetcher) CoinDetail(ctx context.Context, id string) (domain.CoinDetail, error) {
	var detail domain.CoinDetail
	var history []domain.PricePoint

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail, err = f.source.Coin(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = f.source.PriceHistory(gctx, id, HistoryDays)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.CoinDetail{}, fmt.Errorf("coin %s: %w", id, err)
	}

	detail.History = history
	return detail, nil
}

// load joins the in-flight load of key or starts one. The shared load runs to
// completion without the caller's cancellation; a caller whose ctx ends stops
// waiting for it. Each caller gets its own copy of the data.
func load[S ~[]E, E any](ctx context.Context, f *Fetcher, key string, ttl time.Duration, fetch func(context.Context) (S, error)) (Result[S], error) {
	ch := f.group.DoChan(key, func() (any, error) {
		return loadOnce(context.WithoutCancel(ctx), f, key, ttl, fetch)
	})

	select {
	case <-ctx.Done():
		return Result[S]{}, fmt.Errorf("load %s: %w", key, ctx.Err())
	case r := <-ch:
		if r.Err != nil {
			return Result[S]{}, r.Err
		}
		res := r.Val.(Result[S])
		if r.Shared {
			res.Data = slices.Clone(res.Data)
		}
		return res, nil
	}
}

func loadOnce[T any](ctx context.Context, f *Fetcher, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (Result[T], error) {
	// 1. Fresh cache hit
	if e, ok := f.cache.ReadFresh(key, ttl); ok {
		var data T
		err := json.Unmarshal(e.Value, &data)
		if err == nil {
			infra.GlobalMetrics.RecordCacheHit()
			return Result[T]{Data: data, Status: StatusFresh, StoredAt: e.StoredAt, FromCache: true}, nil
		}
		f.logger.Warn("Discarding unreadable cache entry", slog.String("key", key), slog.Any("error", err))
	}
	infra.GlobalMetrics.RecordCacheMiss()

	// 2. Network
	data, fetchErr := fetch(ctx)
	if fetchErr == nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return Result[T]{}, fmt.Errorf("encode %s: %w", key, err)
		}
		entry, err := f.cache.Write(key, raw)
		if err != nil {
			f.logger.Warn("Cache write failed, keeping data in memory", slog.String("key", key), slog.Any("error", err))
		}
		return Result[T]{Data: data, Status: StatusFresh, StoredAt: entry.StoredAt}, nil
	}

	// 3. Stale fallback
	if e, ok := f.cache.ReadAny(key); ok {
		var stale T
		if err := json.Unmarshal(e.Value, &stale); err == nil {
			infra.GlobalMetrics.RecordDegraded()
			f.logger.Warn("Using cached data after failed refetch",
				slog.String("key", key),
				slog.Time("stored_at", e.StoredAt),
				slog.Bool("retriable", domain.IsRetriable(fetchErr)),
				slog.Any("error", fetchErr))
			return Result[T]{Data: stale, Status: StatusDegraded, StoredAt: e.StoredAt, FromCache: true, Cause: fetchErr}, nil
		}
	}

	infra.GlobalMetrics.RecordFailure()
	return Result[T]{}, fmt.Errorf("load %s: %w", key, fetchErr)
}
