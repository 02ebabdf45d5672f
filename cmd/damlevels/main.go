package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	httpadapter "github.com/reservoirwatch/dam-levels/internal/adapter/http"
	"github.com/reservoirwatch/dam-levels/internal/adapter/sheets"
	"github.com/reservoirwatch/dam-levels/internal/config"
	"github.com/reservoirwatch/dam-levels/internal/observability"
	"github.com/reservoirwatch/dam-levels/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	endpoint := sheets.ResolveCSVURL(cfg.SheetURL)
	if endpoint == "" {
		logger.Warn("no sheet URL configured, serving without data (set DAMLEVELS_SHEET_URL)")
	} else {
		logger.Info("sheet endpoint resolved", "endpoint", endpoint)
	}

	client := sheets.NewClient(cfg.FetchTimeout, logger, metrics)
	p := pipeline.New(client, clock, logger, metrics)
	cache := sheets.NewSnapshotCache(p, cfg.CacheTTL, clock, logger, metrics)
	feed := pipeline.NewFeed(cache, endpoint)
	refresher := pipeline.NewRefresher(feed, cfg.RefreshInterval, clock, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, feed, feed, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start background refresh loop.
	go func() {
		if err := refresher.Run(ctx); err != nil {
			logger.Error("refresher error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
