package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/reservoirwatch/dam-levels/internal/observability"
)

// Refresher rebuilds the feed's snapshot on a fixed interval so readers
// rarely pay for an upstream fetch. The interval matches the dashboard's
// auto-refresh cadence.
type Refresher struct {
	feed     *Feed
	interval time.Duration
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewRefresher creates a Refresher for the feed.
func NewRefresher(feed *Feed, interval time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Refresher {
	return &Refresher{
		feed:     feed,
		interval: interval,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
	}
}

// Run refreshes immediately, then on every tick until the context is
// cancelled. Failures are logged and counted; the previously cached
// snapshot stays available throughout.
func (r *Refresher) Run(ctx context.Context) error {
	if r.feed.Endpoint() == "" {
		r.logger.Warn("no sheet endpoint configured, refresher idle")
		<-ctx.Done()
		return nil
	}

	r.logger.Info("refresher started", "interval", r.interval, "endpoint", r.feed.Endpoint())
	r.refreshOnce(ctx)

	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("refresher stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			r.refreshOnce(ctx)
		}
	}
}

func (r *Refresher) refreshOnce(ctx context.Context) {
	snapshot, err := r.feed.Refresh(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		r.metrics.RefreshRuns.WithLabelValues("error").Inc()
		r.logger.Error("snapshot refresh failed", "error", err)
		return
	}
	r.metrics.RefreshRuns.WithLabelValues("success").Inc()
	r.logger.Debug("snapshot refreshed",
		"rows", len(snapshot.Readings),
		"fetch_id", snapshot.FetchID,
	)
}
