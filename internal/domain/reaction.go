package domain

import (
	"regexp"
	"strings"
	"time"
)

type Kind string

const (
	KindLike  Kind = "like"
	KindLove  Kind = "love"
	KindLaugh Kind = "laugh"
	KindWow   Kind = "wow"
	KindSad   Kind = "sad"
	KindAngry Kind = "angry"
)

var DefaultKinds = []Kind{KindLike, KindLove, KindLaugh, KindWow, KindSad, KindAngry}

var kindPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// KindSet is the closed set of reaction kinds a deployment accepts.
type KindSet struct {
	order []Kind
	set   map[Kind]struct{}
}

func NewKindSet(kinds ...Kind) KindSet {
	ks := KindSet{set: make(map[Kind]struct{}, len(kinds))}
	for _, k := range kinds {
		k = Kind(strings.TrimSpace(string(k)))
		if !kindPattern.MatchString(string(k)) {
			continue
		}
		if _, dup := ks.set[k]; dup {
			continue
		}
		ks.set[k] = struct{}{}
		ks.order = append(ks.order, k)
	}
	return ks
}

// ParseKinds builds a KindSet from a comma separated list, falling back to DefaultKinds.
func ParseKinds(csv string) KindSet {
	var kinds []Kind
	for _, p := range strings.Split(csv, ",") {
		if p = strings.TrimSpace(p); p != "" {
			kinds = append(kinds, Kind(p))
		}
	}
	ks := NewKindSet(kinds...)
	if ks.Len() == 0 {
		return NewKindSet(DefaultKinds...)
	}
	return ks
}

func (ks KindSet) Len() int     { return len(ks.order) }
func (ks KindSet) List() []Kind { return append([]Kind(nil), ks.order...) }

func (ks KindSet) Contains(k Kind) bool {
	_, ok := ks.set[k]
	return ok
}

// Validate applies the charset rule before the membership check so that
// injection attempts are reported the same way as unknown kinds.
func (ks KindSet) Validate(k Kind) error {
	if !kindPattern.MatchString(string(k)) || !ks.Contains(k) {
		return ErrInvalidKind
	}
	return nil
}

// Reaction is the single live row kept per (video, identity) pair.
type Reaction struct {
	ID        string
	VideoID   string
	Identity  string
	Kind      Kind
	CreatedAt time.Time
}

type ReactionStatus struct {
	HasReacted bool
	Kind       *Kind
}

func ReactedWith(k Kind) ReactionStatus { return ReactionStatus{HasReacted: true, Kind: &k} }

type ReactionCount struct {
	Kind  Kind
	Count int64
}

type VideoReactionCount struct {
	VideoID string
	Kind    Kind
	Count   int64
}

func TotalCount(counts []ReactionCount) int64 {
	var n int64
	for _, c := range counts {
		n += c.Count
	}
	return n
}

type ChangeOp string

const (
	OpInsert ChangeOp = "insert"
	OpUpdate ChangeOp = "update"
	OpDelete ChangeOp = "delete"
)

// ReactionChange is delivered to every subscriber watching VideoID.
type ReactionChange struct {
	VideoID  string    `json:"video_id"`
	Identity string    `json:"identity,omitempty"`
	Kind     Kind      `json:"reaction_type,omitempty"`
	Op       ChangeOp  `json:"op"`
	At       time.Time `json:"at"`
}
