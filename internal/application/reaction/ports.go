package reaction

import (
	"context"
	"time"

	"github.com/baechuer/streamgate/services/reaction-service/internal/domain"
)

type Clock interface {
	Now() time.Time
}

type VideoRepo interface {
	// EnsureVideo creates the row when absent and returns its id. Safe to call repeatedly.
	EnsureVideo(ctx context.Context, fileID, title, description string) (string, error)
}

type ReactionRepo interface {
	// GetReaction returns nil, nil when the identity has no live reaction.
	GetReaction(ctx context.Context, videoID, identity string) (*domain.Reaction, error)
	DeleteReaction(ctx context.Context, videoID, identity string) (bool, error)
	// InsertReaction replaces any row for the same (video, identity) pair.
	InsertReaction(ctx context.Context, r *domain.Reaction) error
	CountByKind(ctx context.Context, videoID string) ([]domain.ReactionCount, error)
	CountAll(ctx context.Context) ([]domain.VideoReactionCount, error)
}

// KnownVideoCache memoizes the row id of videos that already exist.
type KnownVideoCache interface {
	Lookup(ctx context.Context, videoID string) (string, bool, error)
	Remember(ctx context.Context, videoID, rowID string, ttl time.Duration) error
}

type Subscription interface {
	C() <-chan domain.ReactionChange
	Close() error
}

// ChangeNotifier fans reaction changes out to every subscriber of a video.
type ChangeNotifier interface {
	Publish(ctx context.Context, ch domain.ReactionChange) error
	Subscribe(ctx context.Context, videoID string) (Subscription, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, routingKey string, payload any) error
}
