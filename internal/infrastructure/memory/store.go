package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/streamgate/services/reaction-service/internal/domain"
)

type reactionKey struct {
	videoID  string
	identity string
}

// Store keeps videos, reactions and analytics events in process memory.
// It backs STORE_DRIVER=memory and the application tests.
type Store struct {
	mu        sync.RWMutex
	videos    map[string]*domain.Video
	reactions map[reactionKey]domain.Reaction
	events    []domain.ViewEvent
	now       func() time.Time
}

func NewStore() *Store {
	return &Store{
		videos:    make(map[string]*domain.Video),
		reactions: make(map[reactionKey]domain.Reaction),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) EnsureVideo(ctx context.Context, fileID, title, description string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.videos[fileID]; ok {
		return v.ID, nil
	}
	now := s.now()
	v := &domain.Video{
		ID:          uuid.NewString(),
		FileID:      fileID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.videos[fileID] = v
	return v.ID, nil
}

func (s *Store) VideoCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.videos)
}

func (s *Store) GetReaction(ctx context.Context, videoID, identity string) (*domain.Reaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reactions[reactionKey{videoID, identity}]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *Store) DeleteReaction(ctx context.Context, videoID, identity string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := reactionKey{videoID, identity}
	if _, ok := s.reactions[k]; !ok {
		return false, nil
	}
	delete(s.reactions, k)
	return true, nil
}

func (s *Store) InsertReaction(ctx context.Context, r *domain.Reaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reactions[reactionKey{r.VideoID, r.Identity}] = *r
	return nil
}

// RowCount returns the number of stored reactions for the pair. Used by tests.
func (s *Store) RowCount(videoID, identity string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.reactions[reactionKey{videoID, identity}]; ok {
		return 1
	}
	return 0
}

func (s *Store) CountByKind(ctx context.Context, videoID string) ([]domain.ReactionCount, error) {
	s.mu.RLock()
	byKind := map[domain.Kind]int64{}
	for k, r := range s.reactions {
		if k.videoID == videoID {
			byKind[r.Kind]++
		}
	}
	s.mu.RUnlock()

	out := make([]domain.ReactionCount, 0, len(byKind))
	for kind, n := range byKind {
		out = append(out, domain.ReactionCount{Kind: kind, Count: n})
	}
	sortCounts(out)
	return out, nil
}

func (s *Store) CountAll(ctx context.Context) ([]domain.VideoReactionCount, error) {
	s.mu.RLock()
	type vk struct {
		videoID string
		kind    domain.Kind
	}
	agg := map[vk]int64{}
	for k, r := range s.reactions {
		agg[vk{k.videoID, r.Kind}]++
	}
	s.mu.RUnlock()

	out := make([]domain.VideoReactionCount, 0, len(agg))
	for k, n := range agg {
		out = append(out, domain.VideoReactionCount{VideoID: k.videoID, Kind: k.kind, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].VideoID != out[j].VideoID {
			return out[i].VideoID < out[j].VideoID
		}
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Kind < out[j].Kind
	})
	return out, nil
}

func sortCounts(c []domain.ReactionCount) {
	sort.Slice(c, func(i, j int) bool {
		if c[i].Count != c[j].Count {
			return c[i].Count > c[j].Count
		}
		return c[i].Kind < c[j].Kind
	})
}
