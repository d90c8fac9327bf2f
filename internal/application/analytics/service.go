package analytics

import (
	"context"
	"strings"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/streamgate/services/reaction-service/internal/domain"
)

const (
	TopVideosLimit      = 5
	RecentActivityLimit = 10
)

type Repo interface {
	InsertEvent(ctx context.Context, e *domain.ViewEvent) error
	IncrementViews(ctx context.Context, fileID string) error
	Overview(ctx context.Context, topN, recentN int) (*domain.AnalyticsOverview, error)
}

type VideoEnsurer interface {
	EnsureVideo(ctx context.Context, videoID string) (string, error)
}

type Clock interface{ Now() time.Time }

type Service struct {
	repo   Repo
	videos VideoEnsurer
	clock  Clock
}

func New(repo Repo, videos VideoEnsurer, clock Clock) *Service {
	return &Service{repo: repo, videos: videos, clock: clock}
}

type TrackCmd struct {
	VideoID          string
	Identity         string
	Type             domain.EventType
	TimestampSeconds int
	UserAgent        string
	Referrer         string
}

// Track records a playback event. Only malformed input is reported; storage
// failures are logged so that tracking never interferes with playback.
func (s *Service) Track(ctx context.Context, cmd TrackCmd) error {
	if err := domain.ValidateVideoID(cmd.VideoID); err != nil {
		return err
	}
	if !cmd.Type.Valid() {
		return domain.ErrValidationMeta("invalid event type", map[string]string{"event_type": "must be one of view, play, pause, ended, seek"})
	}
	if cmd.TimestampSeconds < 0 {
		return domain.ErrValidationMeta("invalid timestamp", map[string]string{"timestamp_seconds": "must be >= 0"})
	}

	if _, err := s.videos.EnsureVideo(ctx, cmd.VideoID); err != nil {
		zlog.Warn().Err(err).Str("video_id", cmd.VideoID).Msg("analytics_ensure_video_failed")
	}

	e := &domain.ViewEvent{
		VideoID:          cmd.VideoID,
		Identity:         strings.TrimSpace(cmd.Identity),
		Type:             cmd.Type,
		TimestampSeconds: cmd.TimestampSeconds,
		UserAgent:        clip(cmd.UserAgent, domain.MaxUserAgentLen),
		Referrer:         clip(cmd.Referrer, domain.MaxReferrerLen),
		CreatedAt:        s.clock.Now(),
	}
	if err := s.repo.InsertEvent(ctx, e); err != nil {
		zlog.Error().Err(err).Str("video_id", cmd.VideoID).Str("event_type", string(cmd.Type)).Msg("analytics_insert_failed")
		return nil
	}

	if cmd.Type == domain.EventView {
		if err := s.repo.IncrementViews(ctx, cmd.VideoID); err != nil {
			zlog.Warn().Err(err).Str("video_id", cmd.VideoID).Msg("analytics_increment_views_failed")
		}
	}
	return nil
}

func (s *Service) Overview(ctx context.Context) (*domain.AnalyticsOverview, error) {
	return s.repo.Overview(ctx, TopVideosLimit, RecentActivityLimit)
}

func clip(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}
