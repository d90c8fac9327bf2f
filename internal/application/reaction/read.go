package reaction

import (
	"context"
	"strings"

	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/streamgate/services/reaction-service/internal/domain"
	"github.com/baechuer/streamgate/services/reaction-service/internal/metrics"
)

// GetStatus reports whether identity has a live reaction on videoID.
// Every failure yields the not-reacted status together with the error.
func (s *Service) GetStatus(ctx context.Context, videoID, identity string) (domain.ReactionStatus, error) {
	if err := domain.ValidateVideoID(videoID); err != nil {
		return domain.ReactionStatus{}, err
	}
	if strings.TrimSpace(identity) == "" {
		return domain.ReactionStatus{}, domain.ErrMissingIdentity
	}

	s.ensureBestEffort(ctx, videoID)

	r, err := s.reactions.GetReaction(ctx, videoID, identity)
	if err != nil {
		metrics.RecordReadFallback("status")
		zlog.Warn().Err(err).Str("video_id", videoID).Msg("reaction_status_failed")
		return domain.ReactionStatus{}, domain.ErrUnavailable("reaction status unavailable")
	}
	if r == nil {
		return domain.ReactionStatus{}, nil
	}
	return domain.ReactedWith(r.Kind), nil
}

// GetCounts returns per-kind counts for videoID, most popular first.
// Failures yield an empty list together with the error.
func (s *Service) GetCounts(ctx context.Context, videoID string) ([]domain.ReactionCount, error) {
	if err := domain.ValidateVideoID(videoID); err != nil {
		return []domain.ReactionCount{}, err
	}

	s.ensureBestEffort(ctx, videoID)

	counts, err := s.reactions.CountByKind(ctx, videoID)
	if err != nil {
		metrics.RecordReadFallback("counts")
		zlog.Warn().Err(err).Str("video_id", videoID).Msg("reaction_counts_failed")
		return []domain.ReactionCount{}, domain.ErrUnavailable("reaction counts unavailable")
	}
	if counts == nil {
		counts = []domain.ReactionCount{}
	}
	return counts, nil
}

// AllCounts lists per-kind counts for every video. Admin reporting only.
func (s *Service) AllCounts(ctx context.Context) ([]domain.VideoReactionCount, error) {
	out, err := s.reactions.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.VideoReactionCount{}
	}
	return out, nil
}
