package dto

import "time"

type ClientIPResp struct {
	IP string `json:"ip"`
}

type EnsureVideoResp struct {
	VideoID string `json:"video_id"`
	ID      string `json:"id"`
}

type CountResp struct {
	ReactionType string `json:"reaction_type"`
	Count        int64  `json:"count"`
}

type CountsResp struct {
	VideoID string      `json:"video_id"`
	Counts  []CountResp `json:"counts"`
	Total   int64       `json:"total"`
}

type StatusResp struct {
	VideoID      string  `json:"video_id"`
	HasReacted   bool    `json:"has_reacted"`
	UserReaction *string `json:"user_reaction"`
}

type PlaybackResp struct {
	VideoID  string `json:"video_id"`
	Decision string `json:"decision"`
	Locked   bool   `json:"locked"`
}

type VideoCountResp struct {
	VideoID      string `json:"video_id"`
	ReactionType string `json:"reaction_type"`
	Count        int64  `json:"count"`
}

type TopVideoResp struct {
	VideoID       string `json:"video_id"`
	Title         string `json:"title"`
	ViewsCount    int64  `json:"views_count"`
	ReactionCount int64  `json:"reaction_count"`
}

type ActivityResp struct {
	VideoID   string    `json:"video_id"`
	EventType string    `json:"event_type"`
	CreatedAt time.Time `json:"created_at"`
}

type AnalyticsOverviewResp struct {
	TotalViews     int64          `json:"total_views"`
	TotalReactions int64          `json:"total_reactions"`
	TotalVideos    int64          `json:"total_videos"`
	TopVideos      []TopVideoResp `json:"top_videos"`
	RecentActivity []ActivityResp `json:"recent_activity"`
}

// StateFrame is pushed to live clients on every session transition.
type StateFrame struct {
	Type         string      `json:"type"`
	VideoID      string      `json:"video_id"`
	Phase        string      `json:"phase"`
	HasReacted   bool        `json:"has_reacted"`
	UserReaction *string     `json:"user_reaction"`
	Counts       []CountResp `json:"counts"`
	Total        int64       `json:"total"`
	Loading      bool        `json:"loading"`
	Decision     string      `json:"decision"`
}

type ErrorFrame struct {
	Type    string            `json:"type"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Meta    map[string]string `json:"meta,omitempty"`
}
