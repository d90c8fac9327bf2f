package memory

import (
	"context"
	"sync"

	"github.com/baechuer/streamgate/services/reaction-service/internal/application/reaction"
	"github.com/baechuer/streamgate/services/reaction-service/internal/domain"
)

const defaultBuffer = 16

// Hub is an in-process change notifier. Each video id is a room; Publish
// delivers to every subscription in the room without blocking. A full
// subscriber buffer drops the change; receivers re-read the store and never
// apply a change directly.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*subscription]struct{}
	buffer int
}

func NewHub() *Hub {
	return &Hub{
		rooms:  make(map[string]map[*subscription]struct{}),
		buffer: defaultBuffer,
	}
}

func (h *Hub) Publish(ctx context.Context, ch domain.ReactionChange) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.rooms[ch.VideoID] {
		select {
		case sub.ch <- ch:
		default:
		}
	}
	return nil
}

// Subscribe opens a subscription that lives until Close or until ctx is done.
func (h *Hub) Subscribe(ctx context.Context, videoID string) (reaction.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sub := &subscription{
		hub:     h,
		videoID: videoID,
		ch:      make(chan domain.ReactionChange, h.buffer),
	}

	h.mu.Lock()
	if h.rooms[videoID] == nil {
		h.rooms[videoID] = make(map[*subscription]struct{})
	}
	h.rooms[videoID][sub] = struct{}{}
	h.mu.Unlock()

	stop := context.AfterFunc(ctx, func() { _ = sub.Close() })
	sub.mu.Lock()
	sub.stop = stop
	sub.mu.Unlock()
	return sub, nil
}

// Subscribers returns the number of open subscriptions for videoID.
func (h *Hub) Subscribers(videoID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[videoID])
}

func (h *Hub) remove(sub *subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs := h.rooms[sub.videoID]; subs != nil {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.rooms, sub.videoID)
		}
	}
	close(sub.ch)
}

type subscription struct {
	hub     *Hub
	videoID string
	ch      chan domain.ReactionChange
	once    sync.Once

	mu   sync.Mutex
	stop func() bool
}

func (s *subscription) C() <-chan domain.ReactionChange { return s.ch }

func (s *subscription) Close() error {
	s.once.Do(func() {
		s.mu.Lock()
		stop := s.stop
		s.mu.Unlock()
		if stop != nil {
			stop()
		}
		s.hub.remove(s)
	})
	return nil
}
