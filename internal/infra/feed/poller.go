package feed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"coinboard/internal/domain"
	"coinboard/internal/service"
)

// SnapshotLoader loads the market snapshot, e.g. Fetcher.Markets bound to a TTL.
type SnapshotLoader func(ctx context.Context) (service.Result[domain.MarketSnapshot], error)

// Poller loads the snapshot on an interval and broadcasts every outcome.
type Poller struct {
	load     SnapshotLoader
	hub      *Hub
	interval time.Duration
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewPoller creates a poller
func NewPoller(load SnapshotLoader, hub *Hub, interval time.Duration) *Poller {
	return &Poller{load: load, hub: hub, interval: interval}
}

// Start polls once immediately, then on every interval until Stop or ctx ends
func (p *Poller) Start(ctx context.Context) error {
	ctx, p.cancel = context.WithCancel(ctx)

	p.poll(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Feed polling panic recovered", slog.Any("panic", r))
			}
		}()

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.Info("Feed polling stopped")
				return
			case <-ticker.C:
				p.poll(ctx)
			}
		}
	}()

	return nil
}

// Stop stops the polling
func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
		p.wg.Wait()
	}
}

func (p *Poller) poll(ctx context.Context) {
	u := UpdateFromResult(p.load(ctx))
	if u.Status == "error" {
		slog.Warn("Feed load failed", slog.String("error", u.Error))
	}
	if err := p.hub.Broadcast(u); err != nil {
		slog.Error("Feed broadcast failed", slog.Any("error", err))
	}
}

// UpdateFromResult converts a load outcome into a feed message
func UpdateFromResult(res service.Result[domain.MarketSnapshot], err error) Update {
	if err != nil {
		return Update{Status: "error", Error: err.Error()}
	}
	storedAt := res.StoredAt
	u := Update{Status: res.Status.String(), StoredAt: &storedAt, Coins: res.Data}
	if res.Cause != nil {
		u.Error = res.Cause.Error()
	}
	return u
}
