package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	cacheHits       atomic.Uint64
	cacheMisses     atomic.Uint64
	degradedLoads   atomic.Uint64
	failedLoads     atomic.Uint64
	storageFailures atomic.Uint64

	// Latency tracking
	fetchLatencySumNs atomic.Int64
	fetchCount        atomic.Uint64

	// Gauges
	feedClients atomic.Int32
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordCacheHit records a load served from fresh cache.
func (m *Metrics) RecordCacheHit() {
	m.cacheHits.Add(1)
}

// RecordCacheMiss records a load that had to go to the network.
func (m *Metrics) RecordCacheMiss() {
	m.cacheMisses.Add(1)
}

// RecordFetch records one network request with its latency.
func (m *Metrics) RecordFetch(latency time.Duration) {
	m.fetchCount.Add(1)
	m.fetchLatencySumNs.Add(latency.Nanoseconds())
}

// RecordDegraded records a load answered with stale data.
func (m *Metrics) RecordDegraded() {
	m.degradedLoads.Add(1)
}

// RecordFailure records a load that had nothing to return.
func (m *Metrics) RecordFailure() {
	m.failedLoads.Add(1)
}

// RecordStorageFailure records a failed persistent store access.
func (m *Metrics) RecordStorageFailure() {
	m.storageFailures.Add(1)
}

// IncrementFeedClients increments connected feed clients by 1.
func (m *Metrics) IncrementFeedClients() {
	m.feedClients.Add(1)
}

// DecrementFeedClients decrements connected feed clients by 1.
func (m *Metrics) DecrementFeedClients() {
	m.feedClients.Add(-1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	CacheHits       uint64    `json:"cache_hits"`
	CacheMisses     uint64    `json:"cache_misses"`
	NetworkFetches  uint64    `json:"network_fetches"`
	AvgFetchLatency int64     `json:"avg_fetch_latency_ns"`
	DegradedLoads   uint64    `json:"degraded_loads"`
	FailedLoads     uint64    `json:"failed_loads"`
	StorageFailures uint64    `json:"storage_failures"`
	FeedClients     int32     `json:"feed_clients"`
	Timestamp       time.Time `json:"timestamp"`
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avgLatency int64
	count := m.fetchCount.Load()
	if count > 0 {
		avgLatency = m.fetchLatencySumNs.Load() / int64(count)
	}

	return MetricsSnapshot{
		CacheHits:       m.cacheHits.Load(),
		CacheMisses:     m.cacheMisses.Load(),
		NetworkFetches:  count,
		AvgFetchLatency: avgLatency,
		DegradedLoads:   m.degradedLoads.Load(),
		FailedLoads:     m.failedLoads.Load(),
		StorageFailures: m.storageFailures.Load(),
		FeedClients:     m.feedClients.Load(),
		Timestamp:       time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.cacheHits.Store(0)
	m.cacheMisses.Store(0)
	m.degradedLoads.Store(0)
	m.failedLoads.Store(0)
	m.storageFailures.Store(0)
	m.fetchLatencySumNs.Store(0)
	m.fetchCount.Store(0)
	m.feedClients.Store(0)
}
