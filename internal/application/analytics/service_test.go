package analytics_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/streamgate/services/reaction-service/internal/application/analytics"
	"github.com/baechuer/streamgate/services/reaction-service/internal/application/reaction"
	"github.com/baechuer/streamgate/services/reaction-service/internal/domain"
	"github.com/baechuer/streamgate/services/reaction-service/internal/infrastructure/memory"
	pubsub "github.com/baechuer/streamgate/services/reaction-service/internal/infrastructure/pubsub/memory"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type failingRepo struct{ *memory.Store }

func (failingRepo) InsertEvent(ctx context.Context, e *domain.ViewEvent) error {
	return errors.New("db down")
}

func newService(repo analytics.Repo, store *memory.Store) *analytics.Service {
	videos := reaction.New(store, store, pubsub.NewHub())
	return analytics.New(repo, videos, fixedClock{time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)})
}

func TestTrack(t *testing.T) {
	ctx := context.Background()

	t.Run("view_increments_counter", func(t *testing.T) {
		store := memory.NewStore()
		svc := newService(store, store)

		require.NoError(t, svc.Track(ctx, analytics.TrackCmd{VideoID: "vid1", Identity: "A", Type: domain.EventView}))
		require.NoError(t, svc.Track(ctx, analytics.TrackCmd{VideoID: "vid1", Identity: "A", Type: domain.EventPlay, TimestampSeconds: 3}))

		ov, err := svc.Overview(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), ov.TotalViews)
		assert.Equal(t, int64(1), ov.TotalVideos)
		require.Len(t, ov.RecentActivity, 2)
		assert.Equal(t, domain.EventPlay, ov.RecentActivity[0].Type)
	})

	t.Run("rejects_bad_input", func(t *testing.T) {
		store := memory.NewStore()
		svc := newService(store, store)

		err := svc.Track(ctx, analytics.TrackCmd{VideoID: "../x", Type: domain.EventView})
		assert.True(t, domain.IsValidation(err))

		err = svc.Track(ctx, analytics.TrackCmd{VideoID: "vid1", Type: "rewind"})
		assert.True(t, domain.IsValidation(err))

		err = svc.Track(ctx, analytics.TrackCmd{VideoID: "vid1", Type: domain.EventSeek, TimestampSeconds: -1})
		assert.True(t, domain.IsValidation(err))

		assert.Equal(t, 0, store.VideoCount())
	})

	t.Run("storage_failure_is_swallowed", func(t *testing.T) {
		store := memory.NewStore()
		svc := newService(failingRepo{store}, store)

		require.NoError(t, svc.Track(ctx, analytics.TrackCmd{VideoID: "vid1", Type: domain.EventView}))
		ov, err := svc.Overview(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), ov.TotalViews)
	})

	t.Run("long_user_agent_is_clipped", func(t *testing.T) {
		store := memory.NewStore()
		svc := newService(store, store)

		ua := strings.Repeat("a", domain.MaxUserAgentLen+50)
		require.NoError(t, svc.Track(ctx, analytics.TrackCmd{VideoID: "vid1", Type: domain.EventPause, UserAgent: ua}))
	})
}
