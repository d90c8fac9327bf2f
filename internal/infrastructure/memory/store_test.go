package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/streamgate/services/reaction-service/internal/domain"
)

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("ensure_video_is_idempotent", func(t *testing.T) {
		s := NewStore()
		id1, err := s.EnsureVideo(ctx, "vid1", "Video vid1", domain.PlaceholderDescription)
		require.NoError(t, err)
		id2, err := s.EnsureVideo(ctx, "vid1", "other", "other")
		require.NoError(t, err)
		assert.Equal(t, id1, id2)
		assert.Equal(t, 1, s.VideoCount())
	})

	t.Run("insert_replaces_row_for_same_pair", func(t *testing.T) {
		s := NewStore()
		require.NoError(t, s.InsertReaction(ctx, &domain.Reaction{VideoID: "vid1", Identity: "A", Kind: domain.KindLove}))
		require.NoError(t, s.InsertReaction(ctx, &domain.Reaction{VideoID: "vid1", Identity: "A", Kind: domain.KindLike}))
		assert.Equal(t, 1, s.RowCount("vid1", "A"))

		r, err := s.GetReaction(ctx, "vid1", "A")
		require.NoError(t, err)
		assert.Equal(t, domain.KindLike, r.Kind)
	})

	t.Run("delete_reports_whether_row_existed", func(t *testing.T) {
		s := NewStore()
		removed, err := s.DeleteReaction(ctx, "vid1", "A")
		require.NoError(t, err)
		assert.False(t, removed)

		require.NoError(t, s.InsertReaction(ctx, &domain.Reaction{VideoID: "vid1", Identity: "A", Kind: domain.KindWow}))
		removed, err = s.DeleteReaction(ctx, "vid1", "A")
		require.NoError(t, err)
		assert.True(t, removed)

		r, err := s.GetReaction(ctx, "vid1", "A")
		require.NoError(t, err)
		assert.Nil(t, r)
	})

	t.Run("counts_are_ordered_by_count_then_kind", func(t *testing.T) {
		s := NewStore()
		for id, k := range map[string]domain.Kind{"A": domain.KindLike, "B": domain.KindLike, "C": domain.KindWow, "D": domain.KindAngry} {
			require.NoError(t, s.InsertReaction(ctx, &domain.Reaction{VideoID: "vid1", Identity: id, Kind: k}))
		}
		require.NoError(t, s.InsertReaction(ctx, &domain.Reaction{VideoID: "vid2", Identity: "A", Kind: domain.KindSad}))

		counts, err := s.CountByKind(ctx, "vid1")
		require.NoError(t, err)
		assert.Equal(t, []domain.ReactionCount{
			{Kind: domain.KindLike, Count: 2},
			{Kind: domain.KindAngry, Count: 1},
			{Kind: domain.KindWow, Count: 1},
		}, counts)

		all, err := s.CountAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, "vid2", all[3].VideoID)
	})

	t.Run("overview_ranks_by_views", func(t *testing.T) {
		s := NewStore()
		_, _ = s.EnsureVideo(ctx, "a", "Video a", "")
		_, _ = s.EnsureVideo(ctx, "b", "Video b", "")
		require.NoError(t, s.IncrementViews(ctx, "b"))
		require.NoError(t, s.IncrementViews(ctx, "b"))
		require.NoError(t, s.IncrementViews(ctx, "a"))
		require.NoError(t, s.InsertReaction(ctx, &domain.Reaction{VideoID: "a", Identity: "X", Kind: domain.KindLike}))
		require.NoError(t, s.InsertEvent(ctx, &domain.ViewEvent{VideoID: "a", Type: domain.EventView}))
		require.NoError(t, s.InsertEvent(ctx, &domain.ViewEvent{VideoID: "b", Type: domain.EventPlay}))

		ov, err := s.Overview(ctx, 5, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), ov.TotalVideos)
		assert.Equal(t, int64(3), ov.TotalViews)
		assert.Equal(t, int64(1), ov.TotalReactions)
		require.Len(t, ov.TopVideos, 2)
		assert.Equal(t, "b", ov.TopVideos[0].VideoID)
		assert.Equal(t, int64(1), ov.TopVideos[1].ReactionCount)
		require.Len(t, ov.RecentActivity, 1)
		assert.Equal(t, domain.EventPlay, ov.RecentActivity[0].Type)
	})

	t.Run("increment_views_unknown_video", func(t *testing.T) {
		s := NewStore()
		err := s.IncrementViews(ctx, "nope")
		require.Error(t, err)
	})
}
