package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coinboard/internal/domain"
	"coinboard/internal/infra"
	"coinboard/internal/infra/feed"
	"coinboard/internal/service"

	"github.com/google/subcommands"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "push market snapshots to dashboards over a websocket" }
func (*serveCmd) Usage() string {
	return `coinboard serve [-addr <host:port>]

  Loads the market snapshot on the configured interval and broadcasts every
  outcome (fresh, degraded or error) on ws://<addr>/ws. Current counters are
  served as JSON on /metrics. Stops on SIGINT or SIGTERM.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address (defaults to feed.addr from the config)")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := open()
	if err != nil {
		return fail("Error initializing", err)
	}
	defer b.Close()

	addr := c.addr
	if addr == "" {
		addr = b.Config.Feed.Addr
	}

	// Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := feed.NewHub()
	defer hub.Close()

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(infra.GlobalMetrics.Snapshot())
	})
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	poller := feed.NewPoller(func(ctx context.Context) (service.Result[domain.MarketSnapshot], error) {
		return b.Markets(ctx)
	}, hub, b.Config.PollInterval())
	if err := poller.Start(ctx); err != nil {
		return fail("Error starting poller", err)
	}
	defer poller.Stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Feed server started", slog.String("addr", addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fail("Error serving feed", err)
		}
	case <-ctx.Done():
		slog.Info("Shutting down feed server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Feed server shutdown failed", slog.Any("error", err))
		}
	}
	return subcommands.ExitSuccess
}
