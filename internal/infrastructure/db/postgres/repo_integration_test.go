//go:build integration
// +build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/baechuer/streamgate/services/reaction-service/internal/domain"
	"github.com/baechuer/streamgate/services/reaction-service/internal/infrastructure/db/postgres"
)

func startPostgres(t *testing.T) *postgres.Repo {
	t.Helper()
	ctx := context.Background()

	c, err := tcpostgres.Run(ctx, "postgres:17",
		tcpostgres.WithDatabase("reactions"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := c.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := c.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := postgres.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, postgres.Migrate(ctx, db))
	require.NoError(t, postgres.Migrate(ctx, db))
	return postgres.New(db)
}

func TestRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	repo := startPostgres(t)
	ctx := context.Background()

	t.Run("ensure_video_is_idempotent", func(t *testing.T) {
		id1, err := repo.EnsureVideo(ctx, "vid1", "Video vid1", domain.PlaceholderDescription)
		require.NoError(t, err)
		id2, err := repo.EnsureVideo(ctx, "vid1", "Video vid1", domain.PlaceholderDescription)
		require.NoError(t, err)
		assert.Equal(t, id1, id2)
	})

	t.Run("upsert_keeps_one_row_per_pair", func(t *testing.T) {
		now := time.Now().UTC()
		for _, k := range []domain.Kind{domain.KindLove, domain.KindLike} {
			require.NoError(t, repo.InsertReaction(ctx, &domain.Reaction{
				ID: uuid.NewString(), VideoID: "vid1", Identity: "A", Kind: k, CreatedAt: now,
			}))
		}
		r, err := repo.GetReaction(ctx, "vid1", "A")
		require.NoError(t, err)
		require.NotNil(t, r)
		assert.Equal(t, domain.KindLike, r.Kind)

		counts, err := repo.CountByKind(ctx, "vid1")
		require.NoError(t, err)
		assert.Equal(t, []domain.ReactionCount{{Kind: domain.KindLike, Count: 1}}, counts)
	})

	t.Run("concurrent_double_submit_leaves_one_row", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				k := domain.KindWow
				if i%2 == 0 {
					k = domain.KindSad
				}
				_, _ = repo.DeleteReaction(ctx, "vid2", "B")
				_ = repo.InsertReaction(ctx, &domain.Reaction{
					ID: uuid.NewString(), VideoID: "vid2", Identity: "B", Kind: k, CreatedAt: time.Now().UTC(),
				})
			}(i)
		}
		wg.Wait()

		counts, err := repo.CountByKind(ctx, "vid2")
		require.NoError(t, err)
		assert.Equal(t, int64(1), domain.TotalCount(counts))
	})

	t.Run("analytics_overview", func(t *testing.T) {
		require.NoError(t, repo.InsertEvent(ctx, &domain.ViewEvent{
			VideoID: "vid1", Identity: "A", Type: domain.EventView, CreatedAt: time.Now().UTC(),
		}))
		require.NoError(t, repo.IncrementViews(ctx, "vid1"))

		ov, err := repo.Overview(ctx, 5, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), ov.TotalViews)
		require.NotEmpty(t, ov.TopVideos)
		assert.Equal(t, "vid1", ov.TopVideos[0].VideoID)
		require.Len(t, ov.RecentActivity, 1)
	})
}
