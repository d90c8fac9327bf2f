package dto

import (
	"errors"

	"github.com/baechuer/streamgate/services/reaction-service/internal/application/session"
	"github.com/baechuer/streamgate/services/reaction-service/internal/domain"
)

func ToCountResps(counts []domain.ReactionCount) []CountResp {
	out := make([]CountResp, 0, len(counts))
	for _, c := range counts {
		out = append(out, CountResp{ReactionType: string(c.Kind), Count: c.Count})
	}
	return out
}

func ToCountsResp(videoID string, counts []domain.ReactionCount) CountsResp {
	return CountsResp{
		VideoID: videoID,
		Counts:  ToCountResps(counts),
		Total:   domain.TotalCount(counts),
	}
}

func ToStatusResp(videoID string, st domain.ReactionStatus) StatusResp {
	return StatusResp{
		VideoID:      videoID,
		HasReacted:   st.HasReacted,
		UserReaction: kindPtr(st.Kind),
	}
}

func ToPlaybackResp(videoID string, d session.Decision) PlaybackResp {
	return PlaybackResp{VideoID: videoID, Decision: string(d), Locked: d != session.DecisionOpen}
}

func ToVideoCountResps(rows []domain.VideoReactionCount) []VideoCountResp {
	out := make([]VideoCountResp, 0, len(rows))
	for _, r := range rows {
		out = append(out, VideoCountResp{VideoID: r.VideoID, ReactionType: string(r.Kind), Count: r.Count})
	}
	return out
}

func ToAnalyticsOverviewResp(o *domain.AnalyticsOverview) AnalyticsOverviewResp {
	resp := AnalyticsOverviewResp{
		TopVideos:      []TopVideoResp{},
		RecentActivity: []ActivityResp{},
	}
	if o == nil {
		return resp
	}
	resp.TotalViews = o.TotalViews
	resp.TotalReactions = o.TotalReactions
	resp.TotalVideos = o.TotalVideos
	for _, v := range o.TopVideos {
		resp.TopVideos = append(resp.TopVideos, TopVideoResp(v))
	}
	for _, a := range o.RecentActivity {
		resp.RecentActivity = append(resp.RecentActivity, ActivityResp{
			VideoID:   a.VideoID,
			EventType: string(a.Type),
			CreatedAt: a.CreatedAt,
		})
	}
	return resp
}

func ToStateFrame(s session.State) StateFrame {
	return StateFrame{
		Type:         FrameState,
		VideoID:      s.VideoID,
		Phase:        string(s.Phase),
		HasReacted:   s.HasReacted,
		UserReaction: kindPtr(s.UserReaction),
		Counts:       ToCountResps(s.Counts),
		Total:        domain.TotalCount(s.Counts),
		Loading:      s.Loading,
		Decision:     string(session.Decide(s)),
	}
}

// ToErrorFrame reports only domain error details; anything else is internal.
func ToErrorFrame(err error) ErrorFrame {
	var ae *domain.AppError
	if errors.As(err, &ae) {
		return ErrorFrame{Type: FrameError, Code: string(ae.Code), Message: ae.Message, Meta: ae.Meta}
	}
	return ErrorFrame{Type: FrameError, Code: "internal_error", Message: "internal error"}
}

func kindPtr(k *domain.Kind) *string {
	if k == nil {
		return nil
	}
	s := string(*k)
	return &s
}
