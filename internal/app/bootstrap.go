package app

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"coinboard/internal/cache"
	"coinboard/internal/domain"
	"coinboard/internal/infra"
	"coinboard/internal/infra/coingecko"
	"coinboard/internal/infra/storage"
	"coinboard/internal/service"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	ConfigPath string

	Config      *infra.Config
	Storage     *storage.Storage // nil when running memory-only
	Store       domain.KeyValueStore
	Source      domain.MarketDataSource // defaults to the CoinGecko client
	Cache       *cache.TTLCache
	Fetcher     *service.Fetcher
	Portfolio   *service.Portfolio
	Preferences *service.Preferences
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap(configPath string) *Bootstrap {
	return &Bootstrap{ConfigPath: configPath}
}

// Initialize performs core system initialization (config, logger, storage, services)
func (b *Bootstrap) Initialize() error {
	// 1. Load Config
	cfg, err := infra.LoadConfig(b.ConfigPath)
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	slog.SetDefault(infra.NewLogger(cfg))
	slog.Debug("Bootstrapping coinboard", slog.String("version", cfg.App.Version))

	// 3. Initialize Storage (DB). An unusable database is not fatal.
	b.Store = b.openStore()

	// 4. Services
	if b.Source == nil {
		b.Source = coingecko.NewClientFromConfig(cfg)
	}
	b.Cache = cache.New(b.Store)
	b.Fetcher = service.NewFetcher(b.Source, b.Cache)
	b.Portfolio = service.NewPortfolio(b.Store, nil)
	b.Preferences = service.NewPreferences(b.Store)

	return nil
}

func (b *Bootstrap) openStore() domain.KeyValueStore {
	if b.Config.Storage.Ephemeral {
		slog.Info("Storage disabled by config, running memory-only")
		return storage.NewMemoryStore()
	}

	db, err := storage.NewStorage(b.Config.Storage.Path)
	if err != nil {
		slog.Warn("Storage unavailable, running memory-only", slog.Any("error", err))
		return storage.NewMemoryStore()
	}
	b.Storage = db
	slog.Debug("Database initialized")
	return storage.NewSessionStore(db)
}

// Close releases the database
func (b *Bootstrap) Close() {
	if b.Storage != nil {
		if err := b.Storage.Close(); err != nil {
			slog.Warn("Failed to close database", slog.Any("error", err))
		}
	}
}

// Markets loads the market snapshot with the configured TTL
func (b *Bootstrap) Markets(ctx context.Context) (service.Result[domain.MarketSnapshot], error) {
	return b.Fetcher.Markets(ctx, b.Config.MarketsTTL())
}

// LoadIndex loads the coin identifier list with the configured TTL, builds the
// autocomplete index over it and hands it to the portfolio as resolver.
func (b *Bootstrap) LoadIndex(ctx context.Context) (*service.Index, service.Result[[]domain.CoinIdentity], error) {
	res, err := b.Fetcher.CoinList(ctx, b.Config.CoinListTTL())
	if err != nil {
		return nil, res, err
	}
	ix := service.NewIndex(res.Data)
	b.Portfolio.SetResolver(ix)
	return ix, res, nil
}

// SyncIcons downloads the icons of every coin in the snapshot.
// It returns how many icons are available locally afterwards.
func (b *Bootstrap) SyncIcons(ctx context.Context, snapshot domain.MarketSnapshot) (int, error) {
	downloader, err := infra.NewIconDownloader(b.Config.Icons.Dir)
	if err != nil {
		return 0, err
	}

	slog.Info("Starting icon synchronization", slog.Int("coins", len(snapshot)))

	var wg sync.WaitGroup
	var synced atomic.Int32
	semaphore := make(chan struct{}, b.Config.Icons.Concurrency) // Limit concurrent downloads

	for _, coin := range snapshot {
		wg.Add(1)
		go func(c domain.MarketCoin) {
			defer wg.Done()
			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}: // Acquire
			}
			defer func() { <-semaphore }() // Release

			if _, err := downloader.DownloadIcon(ctx, c); err != nil {
				slog.Warn("Failed to download icon", slog.String("coin", c.ID), slog.Any("error", err))
				return
			}
			synced.Add(1)
		}(coin)
	}

	wg.Wait()
	slog.Info("Icon synchronization completed", slog.Int("synced", int(synced.Load())))
	return int(synced.Load()), ctx.Err()
}
