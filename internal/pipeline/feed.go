package pipeline

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/reservoirwatch/dam-levels/internal/domain"
)

// ErrNoSheet is returned when the service runs without a configured sheet
// URL. The process still serves health and metrics endpoints, but no data.
var ErrNoSheet = errors.New("no sheet endpoint configured")

// SnapshotSource hands out snapshots per endpoint, caching as it sees
// fit. Implemented by sheets.SnapshotCache.
type SnapshotSource interface {
	Get(ctx context.Context, endpoint string) (domain.Snapshot, error)
	Refresh(ctx context.Context, endpoint string) (domain.Snapshot, error)
}

// Feed binds a snapshot source to the one endpoint this service watches
// and tracks whether data has ever been served, for readiness probes.
type Feed struct {
	source   SnapshotSource
	endpoint string
	ready    atomic.Bool
}

// NewFeed creates a Feed for a resolved CSV endpoint. An empty endpoint
// is allowed and produces a feed that reports not-ready forever.
func NewFeed(source SnapshotSource, endpoint string) *Feed {
	return &Feed{source: source, endpoint: endpoint}
}

// Endpoint returns the resolved CSV endpoint this feed watches.
func (f *Feed) Endpoint() string {
	return f.endpoint
}

// Snapshot returns the current snapshot, served from cache when fresh.
func (f *Feed) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	if f.endpoint == "" {
		return domain.Snapshot{}, ErrNoSheet
	}
	snapshot, err := f.source.Get(ctx, f.endpoint)
	if err != nil {
		return domain.Snapshot{}, err
	}
	f.ready.Store(true)
	return snapshot, nil
}

// Refresh rebuilds the snapshot regardless of cache freshness.
func (f *Feed) Refresh(ctx context.Context) (domain.Snapshot, error) {
	if f.endpoint == "" {
		return domain.Snapshot{}, ErrNoSheet
	}
	snapshot, err := f.source.Refresh(ctx, f.endpoint)
	if err != nil {
		return domain.Snapshot{}, err
	}
	f.ready.Store(true)
	return snapshot, nil
}

// CheckReadiness returns nil once at least one snapshot has been served,
// or an error describing why the service is not yet ready.
func (f *Feed) CheckReadiness(_ context.Context) error {
	if f.endpoint == "" {
		return ErrNoSheet
	}
	if !f.ready.Load() {
		return errors.New("no snapshot has been built yet")
	}
	return nil
}
