package redis

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/streamgate/services/reaction-service/internal/application/reaction"
	"github.com/baechuer/streamgate/services/reaction-service/internal/domain"
)

const subscriberBuffer = 16

func channelName(videoID string) string {
	return "reactions:video:" + videoID
}

// Notifier fans reaction changes out across service instances over Redis pub/sub.
type Notifier struct {
	rdb *redis.Client
}

func NewNotifier(rdb *redis.Client) *Notifier { return &Notifier{rdb: rdb} }

func (n *Notifier) Publish(ctx context.Context, ch domain.ReactionChange) error {
	body, err := json.Marshal(ch)
	if err != nil {
		return err
	}
	return n.rdb.Publish(ctx, channelName(ch.VideoID), body).Err()
}

// Subscribe returns once Redis has confirmed the subscription.
func (n *Notifier) Subscribe(ctx context.Context, videoID string) (reaction.Subscription, error) {
	ps := n.rdb.Subscribe(ctx, channelName(videoID))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}

	s := &subscription{
		ps:   ps,
		out:  make(chan domain.ReactionChange, subscriberBuffer),
		done: make(chan struct{}),
	}
	go s.loop(videoID)

	stop := context.AfterFunc(ctx, func() { _ = s.Close() })
	s.mu.Lock()
	s.stop = stop
	s.mu.Unlock()
	return s, nil
}

type subscription struct {
	ps   *redis.PubSub
	out  chan domain.ReactionChange
	done chan struct{}
	once sync.Once

	mu   sync.Mutex
	stop func() bool
}

func (s *subscription) C() <-chan domain.ReactionChange { return s.out }

func (s *subscription) loop(videoID string) {
	defer close(s.out)
	in := s.ps.Channel()
	for {
		select {
		case <-s.done:
			return
		case msg, ok := <-in:
			if !ok {
				return
			}
			var ch domain.ReactionChange
			if err := json.Unmarshal([]byte(msg.Payload), &ch); err != nil {
				zlog.Warn().Err(err).Str("video_id", videoID).Msg("reaction_change_decode_failed")
				continue
			}
			select {
			case s.out <- ch:
			default:
			}
		}
	}
}

func (s *subscription) Close() error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		stop := s.stop
		s.mu.Unlock()
		if stop != nil {
			stop()
		}
		close(s.done)
		err = s.ps.Close()
	})
	return err
}
