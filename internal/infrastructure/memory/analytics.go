package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/baechuer/streamgate/services/reaction-service/internal/domain"
)

func (s *Store) InsertEvent(ctx context.Context, e *domain.ViewEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	s.events = append(s.events, *e)
	return nil
}

func (s *Store) IncrementViews(ctx context.Context, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.videos[fileID]
	if !ok {
		return domain.ErrNotFound("video not found")
	}
	v.ViewsCount++
	v.UpdatedAt = s.now()
	return nil
}

func (s *Store) Overview(ctx context.Context, topN, recentN int) (*domain.AnalyticsOverview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	perVideo := map[string]int64{}
	for k := range s.reactions {
		perVideo[k.videoID]++
	}

	ov := &domain.AnalyticsOverview{
		TotalVideos:    int64(len(s.videos)),
		TotalReactions: int64(len(s.reactions)),
		TopVideos:      []domain.TopVideo{},
		RecentActivity: []domain.ActivityItem{},
	}

	for _, v := range s.videos {
		ov.TotalViews += v.ViewsCount
		ov.TopVideos = append(ov.TopVideos, domain.TopVideo{
			VideoID:       v.FileID,
			Title:         v.Title,
			ViewsCount:    v.ViewsCount,
			ReactionCount: perVideo[v.FileID],
		})
	}
	sort.Slice(ov.TopVideos, func(i, j int) bool {
		if ov.TopVideos[i].ViewsCount != ov.TopVideos[j].ViewsCount {
			return ov.TopVideos[i].ViewsCount > ov.TopVideos[j].ViewsCount
		}
		return ov.TopVideos[i].VideoID < ov.TopVideos[j].VideoID
	})
	if len(ov.TopVideos) > topN {
		ov.TopVideos = ov.TopVideos[:topN]
	}

	for i := len(s.events) - 1; i >= 0 && len(ov.RecentActivity) < recentN; i-- {
		e := s.events[i]
		ov.RecentActivity = append(ov.RecentActivity, domain.ActivityItem{
			VideoID:   e.VideoID,
			Type:      e.Type,
			CreatedAt: e.CreatedAt,
		})
	}
	return ov, nil
}
