package sheets

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/reservoirwatch/dam-levels/internal/domain"
	"github.com/reservoirwatch/dam-levels/internal/observability"
)

// SnapshotBuilder produces a fresh snapshot for an endpoint.
type SnapshotBuilder interface {
	BuildSnapshot(ctx context.Context, endpoint string) (domain.Snapshot, error)
}

// SnapshotCache memoizes built snapshots per endpoint with a TTL. The
// cache holds its lock across a rebuild, so concurrent readers of an
// expired entry coalesce onto a single upstream fetch. When a rebuild
// fails and a previous snapshot exists, Get serves the stale snapshot
// instead of the error.
type SnapshotCache struct {
	builder SnapshotBuilder
	ttl     time.Duration
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	snapshot domain.Snapshot
	storedAt time.Time
}

// NewSnapshotCache creates a snapshot cache with the given freshness
// window.
func NewSnapshotCache(builder SnapshotBuilder, ttl time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *SnapshotCache {
	return &SnapshotCache{
		builder: builder,
		ttl:     ttl,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached snapshot for the endpoint, rebuilding it when
// missing or older than the TTL.
func (c *SnapshotCache) Get(ctx context.Context, endpoint string) (domain.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[endpoint]; ok && c.clock.Since(entry.storedAt) < c.ttl {
		c.metrics.CacheRequests.WithLabelValues("hit").Inc()
		return entry.snapshot, nil
	}

	snapshot, err := c.builder.BuildSnapshot(ctx, endpoint)
	if err != nil {
		if entry, ok := c.entries[endpoint]; ok {
			c.metrics.CacheRequests.WithLabelValues("stale").Inc()
			c.logger.Warn("serving stale snapshot",
				"endpoint", endpoint,
				"age", c.clock.Since(entry.storedAt),
				"error", err,
			)
			return entry.snapshot, nil
		}
		c.metrics.CacheRequests.WithLabelValues("error").Inc()
		return domain.Snapshot{}, err
	}

	c.entries[endpoint] = cacheEntry{snapshot: snapshot, storedAt: c.clock.Now()}
	c.metrics.CacheRequests.WithLabelValues("miss").Inc()
	return snapshot, nil
}

// Refresh rebuilds the endpoint's snapshot regardless of freshness. On
// failure the previous entry is kept for stale serving and the error is
// returned, so callers can report it.
func (c *SnapshotCache) Refresh(ctx context.Context, endpoint string) (domain.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot, err := c.builder.BuildSnapshot(ctx, endpoint)
	if err != nil {
		return domain.Snapshot{}, err
	}
	c.entries[endpoint] = cacheEntry{snapshot: snapshot, storedAt: c.clock.Now()}
	return snapshot, nil
}
