package session

import "github.com/baechuer/streamgate/services/reaction-service/internal/domain"

type Phase string

const (
	PhaseUninitialized     Phase = "uninitialized"
	PhaseResolvingIdentity Phase = "resolving_identity"
	PhaseLoading           Phase = "loading"
	PhaseReady             Phase = "ready"
)

// State is the per-mount view consumed by the playback gate and the live socket.
type State struct {
	VideoID      string
	Identity     string
	Phase        Phase
	HasReacted   bool
	UserReaction *domain.Kind
	Counts       []domain.ReactionCount
	Loading      bool
}

func (s State) clone() State {
	out := s
	if s.UserReaction != nil {
		k := *s.UserReaction
		out.UserReaction = &k
	}
	out.Counts = append([]domain.ReactionCount(nil), s.Counts...)
	return out
}

type Decision string

const (
	DecisionNeutral Decision = "neutral"
	DecisionBlocked Decision = "blocked"
	DecisionOpen    Decision = "open"
)

// Decide maps session state to a playback decision. Playback is blocked only
// once the state is ready and the identity has not reacted; before that the
// gate stays neutral unless a reaction is already known.
func Decide(s State) Decision {
	switch {
	case s.HasReacted:
		return DecisionOpen
	case s.Phase == PhaseReady:
		return DecisionBlocked
	default:
		return DecisionNeutral
	}
}
