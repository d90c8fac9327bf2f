package reaction

import (
	"context"

	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/streamgate/services/reaction-service/internal/domain"
	"github.com/baechuer/streamgate/services/reaction-service/internal/metrics"
)

// EnsureVideo makes sure a row exists for videoID and returns its id.
// Invalid ids are rejected before any storage access.
func (s *Service) EnsureVideo(ctx context.Context, videoID string) (string, error) {
	if err := domain.ValidateVideoID(videoID); err != nil {
		zlog.Warn().Str("video_id", truncate(videoID, 120)).Msg("video_id_rejected")
		return "", err
	}

	if s.known != nil {
		id, ok, err := s.known.Lookup(ctx, videoID)
		if err != nil {
			zlog.Warn().Err(err).Str("video_id", videoID).Msg("known_video_lookup_failed")
		} else if ok {
			return id, nil
		}
	}

	id, err := s.videos.EnsureVideo(ctx, videoID, domain.PlaceholderTitle(videoID), domain.PlaceholderDescription)
	if err != nil {
		return "", err
	}

	if s.known != nil {
		if err := s.known.Remember(ctx, videoID, id, s.knownTTL); err != nil {
			zlog.Warn().Err(err).Str("video_id", videoID).Msg("known_video_remember_failed")
		}
	}
	return id, nil
}

// ensureBestEffort runs the registrar ahead of a read or write. Failures are logged only.
func (s *Service) ensureBestEffort(ctx context.Context, videoID string) {
	if _, err := s.EnsureVideo(ctx, videoID); err != nil {
		metrics.RecordReadFallback("ensure")
		zlog.Warn().Err(err).Str("video_id", videoID).Msg("ensure_video_failed")
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
