package reaction

import (
	"context"
	"time"

	"github.com/google/uuid"

	appCtx "github.com/baechuer/streamgate/services/reaction-service/internal/pkg/context"
)

const (
	EventVersion  = 1
	EventProducer = "reaction-service"

	RoutingKeyReactionCreated = "reaction.created"
)

// DomainEventEnvelope is the contract for every event emitted by reaction-service.
type DomainEventEnvelope[T any] struct {
	Version    int       `json:"version"`
	Producer   string    `json:"producer"`
	MessageID  string    `json:"message_id"`
	TraceID    string    `json:"trace_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    T         `json:"payload"`
}

// ReactionCreatedPayload is the body for routing key reaction.created.
type ReactionCreatedPayload struct {
	VideoID      string `json:"video_id"`
	Identity     string `json:"identity"`
	ReactionType string `json:"reaction_type"`
	Replaced     bool   `json:"replaced"`
}

func newEnvelope[T any](ctx context.Context, at time.Time, payload T) DomainEventEnvelope[T] {
	return DomainEventEnvelope[T]{
		Version:    EventVersion,
		Producer:   EventProducer,
		MessageID:  uuid.NewString(),
		TraceID:    appCtx.GetRequestID(ctx),
		OccurredAt: at,
		Payload:    payload,
	}
}
