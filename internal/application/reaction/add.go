package reaction

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/streamgate/services/reaction-service/internal/domain"
	"github.com/baechuer/streamgate/services/reaction-service/internal/metrics"
)

// AddReaction records kind as the single live reaction of identity on videoID.
//
// The previous row is deleted first; a failed delete is logged and the write
// continues, because the insert replaces any surviving row for the pair.
// Only an insert failure is returned as an error.
func (s *Service) AddReaction(ctx context.Context, videoID, identity string, kind domain.Kind) error {
	if err := s.validateWrite(videoID, identity, kind); err != nil {
		metrics.RecordReactionFailure("validation")
		zlog.Warn().Err(err).Str("video_id", truncate(videoID, 120)).Msg("reaction_rejected")
		return err
	}

	s.ensureBestEffort(ctx, videoID)

	removed, err := s.reactions.DeleteReaction(ctx, videoID, identity)
	if err != nil {
		metrics.RecordDeleteFailure()
		zlog.Warn().Err(err).Str("video_id", videoID).Str("identity", identity).Msg("reaction_delete_failed")
	}

	now := s.clock.Now()
	r := &domain.Reaction{
		ID:        uuid.NewString(),
		VideoID:   videoID,
		Identity:  identity,
		Kind:      kind,
		CreatedAt: now,
	}
	if err := s.reactions.InsertReaction(ctx, r); err != nil {
		metrics.RecordReactionFailure("insert")
		zlog.Error().Err(err).Str("video_id", videoID).Str("identity", identity).Msg("reaction_insert_failed")
		return fmt.Errorf("insert reaction: %w", err)
	}

	metrics.RecordReaction(string(kind))
	zlog.Info().
		Str("video_id", videoID).
		Str("identity", identity).
		Str("kind", string(kind)).
		Bool("replaced", removed).
		Msg("reaction_added")

	s.notify(ctx, r, removed)

	env := newEnvelope(ctx, now, ReactionCreatedPayload{
		VideoID:      videoID,
		Identity:     identity,
		ReactionType: string(kind),
		Replaced:     removed,
	})
	if err := s.pub.PublishEvent(ctx, RoutingKeyReactionCreated, env); err != nil {
		zlog.Warn().Err(err).Str("video_id", videoID).Msg("reaction_event_publish_failed")
	}
	return nil
}

func (s *Service) validateWrite(videoID, identity string, kind domain.Kind) error {
	if err := domain.ValidateVideoID(videoID); err != nil {
		return err
	}
	if strings.TrimSpace(identity) == "" {
		return domain.ErrMissingIdentity
	}
	return s.kinds.Validate(kind)
}

// notify mirrors the store mutations to live subscribers of the video.
func (s *Service) notify(ctx context.Context, r *domain.Reaction, removed bool) {
	if s.notifier == nil {
		return
	}
	changes := make([]domain.ReactionChange, 0, 2)
	if removed {
		changes = append(changes, domain.ReactionChange{
			VideoID:  r.VideoID,
			Identity: r.Identity,
			Op:       domain.OpDelete,
			At:       r.CreatedAt,
		})
	}
	changes = append(changes, domain.ReactionChange{
		VideoID:  r.VideoID,
		Identity: r.Identity,
		Kind:     r.Kind,
		Op:       domain.OpInsert,
		At:       r.CreatedAt,
	})
	for _, ch := range changes {
		if err := s.notifier.Publish(ctx, ch); err != nil {
			zlog.Warn().Err(err).Str("video_id", r.VideoID).Str("op", string(ch.Op)).Msg("reaction_notify_failed")
		}
	}
}
