package dto

type AddReactionReq struct {
	ReactionType string `json:"reaction_type" validate:"required,max=32,kind_format"`
}

type TrackEventReq struct {
	EventType        string `json:"event_type" validate:"required,oneof=view play pause ended seek"`
	TimestampSeconds int    `json:"timestamp_seconds" validate:"gte=0"`
}

// LiveFrame is a client -> server message on the live socket.
type LiveFrame struct {
	Type         string `json:"type"` // watch | react
	VideoID      string `json:"video_id,omitempty"`
	ReactionType string `json:"reaction_type,omitempty"`
}

const (
	FrameWatch = "watch"
	FrameReact = "react"
	FrameState = "state"
	FrameError = "error"
)
