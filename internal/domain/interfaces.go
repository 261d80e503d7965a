package domain

import "context"

// KeyValueStore is the durable, synchronous store for string-keyed blobs.
// Get is total: read failures are reported as absent.
// Put returns a *StorageError when the write could not be made durable.
type KeyValueStore interface {
	Get(key string) (string, bool)
	Put(key, value string) error
}

// MarketDataSource is the remote market-data API.
type MarketDataSource interface {
	Markets(ctx context.Context) (MarketSnapshot, error)
	CoinList(ctx context.Context) ([]CoinIdentity, error)
	Coin(ctx context.Context, id string) (CoinDetail, error)
	PriceHistory(ctx context.Context, id string, days int) ([]PricePoint, error)
}

// CoinResolver resolves free text to a canonical coin identity.
type CoinResolver interface {
	ResolveExact(text string) (CoinIdentity, bool)
}
