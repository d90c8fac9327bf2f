package domain

import "time"

type EventType string

const (
	EventView  EventType = "view"
	EventPlay  EventType = "play"
	EventPause EventType = "pause"
	EventEnded EventType = "ended"
	EventSeek  EventType = "seek"
)

func (t EventType) Valid() bool {
	switch t {
	case EventView, EventPlay, EventPause, EventEnded, EventSeek:
		return true
	default:
		return false
	}
}

const (
	MaxUserAgentLen = 512
	MaxReferrerLen  = 2048
)

type ViewEvent struct {
	ID               string
	VideoID          string
	Identity         string
	Type             EventType
	TimestampSeconds int
	UserAgent        string
	Referrer         string
	CreatedAt        time.Time
}

type TopVideo struct {
	VideoID       string
	Title         string
	ViewsCount    int64
	ReactionCount int64
}

type ActivityItem struct {
	VideoID   string
	Type      EventType
	CreatedAt time.Time
}

type AnalyticsOverview struct {
	TotalViews     int64
	TotalReactions int64
	TotalVideos    int64
	TopVideos      []TopVideo
	RecentActivity []ActivityItem
}
