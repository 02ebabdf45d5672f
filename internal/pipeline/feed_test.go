package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reservoirwatch/dam-levels/internal/domain"
	"github.com/reservoirwatch/dam-levels/internal/pipeline"
)

type stubSource struct {
	snapshot  domain.Snapshot
	err       error
	gets      int
	refreshes int
}

func (s *stubSource) Get(_ context.Context, _ string) (domain.Snapshot, error) {
	s.gets++
	return s.snapshot, s.err
}

func (s *stubSource) Refresh(_ context.Context, _ string) (domain.Snapshot, error) {
	s.refreshes++
	return s.snapshot, s.err
}

func TestFeed_Snapshot(t *testing.T) {
	source := &stubSource{snapshot: domain.Snapshot{FetchID: "fetch-1"}}
	feed := pipeline.NewFeed(source, testEndpoint)

	snapshot, err := feed.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fetch-1", snapshot.FetchID)
	assert.Equal(t, 1, source.gets)
}

func TestFeed_Refresh(t *testing.T) {
	source := &stubSource{snapshot: domain.Snapshot{FetchID: "fetch-1"}}
	feed := pipeline.NewFeed(source, testEndpoint)

	_, err := feed.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, source.refreshes)
	assert.Zero(t, source.gets)
}

func TestFeed_CheckReadiness(t *testing.T) {
	source := &stubSource{}
	feed := pipeline.NewFeed(source, testEndpoint)

	require.Error(t, feed.CheckReadiness(context.Background()))

	_, err := feed.Snapshot(context.Background())
	require.NoError(t, err)
	assert.NoError(t, feed.CheckReadiness(context.Background()))
}

func TestFeed_SnapshotFailureStaysNotReady(t *testing.T) {
	source := &stubSource{err: errors.New("upstream down")}
	feed := pipeline.NewFeed(source, testEndpoint)

	_, err := feed.Snapshot(context.Background())
	require.Error(t, err)
	assert.Error(t, feed.CheckReadiness(context.Background()))
}

func TestFeed_NoEndpoint(t *testing.T) {
	source := &stubSource{}
	feed := pipeline.NewFeed(source, "")

	_, err := feed.Snapshot(context.Background())
	assert.ErrorIs(t, err, pipeline.ErrNoSheet)

	_, err = feed.Refresh(context.Background())
	assert.ErrorIs(t, err, pipeline.ErrNoSheet)

	assert.ErrorIs(t, feed.CheckReadiness(context.Background()), pipeline.ErrNoSheet)
	assert.Zero(t, source.gets)
	assert.Zero(t, source.refreshes)
}
