package session

import (
	"context"
	"sync"
	"time"

	"github.com/bep/debounce"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/baechuer/streamgate/services/reaction-service/internal/application/reaction"
	"github.com/baechuer/streamgate/services/reaction-service/internal/domain"
	"github.com/baechuer/streamgate/services/reaction-service/internal/metrics"
)

const DefaultReconcileDelay = 100 * time.Millisecond

type Reactions interface {
	GetStatus(ctx context.Context, videoID, identity string) (domain.ReactionStatus, error)
	GetCounts(ctx context.Context, videoID string) ([]domain.ReactionCount, error)
	AddReaction(ctx context.Context, videoID, identity string, kind domain.Kind) error
}

type IdentityResolver interface {
	ResolveIdentity(ctx context.Context) string
}

// Controller owns the reaction state of one mounted viewer.
//
// Every video change bumps an epoch; results of reads started under an older
// epoch are dropped. A successful write sets an optimistic reaction that is
// cleared by the first successful status read started after the write.
type Controller struct {
	reactions Reactions
	notifier  reaction.ChangeNotifier
	resolver  IdentityResolver

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	debounced func(f func())

	idMu     sync.Mutex
	identity string

	mu            sync.Mutex
	closed        bool
	epoch         uint64
	state         State
	sub           reaction.Subscription
	pullSeq       uint64
	optimistic    *domain.Kind
	optimisticSeq uint64
	updates       chan State
}

func NewController(ctx context.Context, reactions Reactions, notifier reaction.ChangeNotifier, resolver IdentityResolver, reconcileDelay time.Duration) *Controller {
	if reconcileDelay <= 0 {
		reconcileDelay = DefaultReconcileDelay
	}
	cctx, cancel := context.WithCancel(ctx)
	c := &Controller{
		reactions: reactions,
		notifier:  notifier,
		resolver:  resolver,
		ctx:       cctx,
		cancel:    cancel,
		debounced: debounce.New(reconcileDelay),
		state:     State{Phase: PhaseUninitialized},
		updates:   make(chan State, 1),
	}
	metrics.SessionOpened()
	return c
}

// Updates delivers the latest state after each transition. Intermediate
// states may be skipped. The channel is closed by Close.
func (c *Controller) Updates() <-chan State { return c.updates }

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// SetVideo resets the session to videoID and starts loading it in the background.
// An invalid id leaves the session uninitialized without touching storage.
func (c *Controller) SetVideo(videoID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return domain.ErrInvalidState("session closed")
	}

	c.epoch++
	c.teardownLocked()
	c.optimistic = nil
	c.state = State{Phase: PhaseUninitialized}

	if err := domain.ValidateVideoID(videoID); err != nil {
		c.emitLocked()
		return err
	}
	c.state.VideoID = videoID
	c.emitLocked()

	epoch := c.epoch
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.mount(epoch, videoID)
	}()
	return nil
}

func (c *Controller) mount(epoch uint64, videoID string) {
	if !c.transition(epoch, func(s *State) { s.Phase = PhaseResolvingIdentity }) {
		return
	}
	identity := c.resolveIdentity()

	if !c.transition(epoch, func(s *State) {
		s.Identity = identity
		s.Phase = PhaseLoading
		s.Loading = true
	}) {
		return
	}

	c.subscribe(epoch, videoID)
	c.pull(epoch, "mount")
}

func (c *Controller) resolveIdentity() string {
	c.idMu.Lock()
	defer c.idMu.Unlock()

	if c.identity == "" {
		c.identity = c.resolver.ResolveIdentity(c.ctx)
		if c.identity == "" {
			c.identity = domain.FallbackIdentity
		}
	}
	return c.identity
}

func (c *Controller) subscribe(epoch uint64, videoID string) {
	if c.notifier == nil {
		return
	}
	sub, err := c.notifier.Subscribe(c.ctx, videoID)
	if err != nil {
		zlog.Warn().Err(err).Str("video_id", videoID).Msg("session_subscribe_failed")
		return
	}

	c.mu.Lock()
	if c.closed || epoch != c.epoch {
		c.mu.Unlock()
		_ = sub.Close()
		return
	}
	c.sub = sub
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		for range sub.C() {
			if !c.current(epoch) {
				continue
			}
			c.debounced(func() { c.reconcile("notify") })
		}
	}()
}

// pull reads status and counts in parallel and applies them if epoch is still current.
func (c *Controller) pull(epoch uint64, trigger string) {
	c.mu.Lock()
	if c.closed || epoch != c.epoch {
		c.mu.Unlock()
		return
	}
	c.pullSeq++
	seq := c.pullSeq
	videoID, identity := c.state.VideoID, c.state.Identity
	c.mu.Unlock()

	metrics.RecordReconcile(trigger)

	var (
		status    domain.ReactionStatus
		statusErr error
		counts    []domain.ReactionCount
	)
	g, gctx := errgroup.WithContext(c.ctx)
	g.Go(func() error {
		status, statusErr = c.reactions.GetStatus(gctx, videoID, identity)
		return nil
	})
	g.Go(func() error {
		var err error
		counts, err = c.reactions.GetCounts(gctx, videoID)
		if err != nil {
			counts = []domain.ReactionCount{}
		}
		return nil
	})
	_ = g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || epoch != c.epoch {
		return
	}

	if statusErr != nil {
		status = domain.ReactionStatus{}
	} else if c.optimistic != nil && seq > c.optimisticSeq {
		c.optimistic = nil
	}

	if c.optimistic != nil {
		c.state.HasReacted = true
		k := *c.optimistic
		c.state.UserReaction = &k
	} else {
		c.state.HasReacted = status.HasReacted
		c.state.UserReaction = status.Kind
	}
	c.state.Counts = counts
	c.state.Phase = PhaseReady
	c.state.Loading = false
	c.emitLocked()
}

func (c *Controller) reconcile(trigger string) {
	c.mu.Lock()
	if c.closed || c.state.Identity == "" {
		c.mu.Unlock()
		return
	}
	epoch := c.epoch
	c.wg.Add(1)
	c.mu.Unlock()

	defer c.wg.Done()
	c.pull(epoch, trigger)
}

// AddReaction writes kind for the current video and identity. On success the
// state flips to reacted immediately and a reconciliation is scheduled. On
// failure the state is left untouched and the error is returned.
func (c *Controller) AddReaction(ctx context.Context, kind domain.Kind) error {
	c.mu.Lock()
	if c.closed || c.state.VideoID == "" || c.state.Identity == "" {
		c.mu.Unlock()
		return domain.ErrNotReady
	}
	epoch := c.epoch
	videoID, identity := c.state.VideoID, c.state.Identity
	c.mu.Unlock()

	if err := c.reactions.AddReaction(ctx, videoID, identity, kind); err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed || epoch != c.epoch {
		c.mu.Unlock()
		return nil
	}
	k := kind
	c.optimistic = &k
	c.optimisticSeq = c.pullSeq
	c.state.HasReacted = true
	c.state.UserReaction = &kind
	c.emitLocked()
	c.mu.Unlock()

	c.debounced(func() { c.reconcile("write") })
	return nil
}

// Close tears down the subscription and waits for background work to finish.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.epoch++
	c.teardownLocked()
	c.cancel()
	close(c.updates)
	c.mu.Unlock()

	c.wg.Wait()
	metrics.SessionClosed()
	return nil
}

func (c *Controller) current(epoch uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && epoch == c.epoch
}

func (c *Controller) transition(epoch uint64, fn func(*State)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || epoch != c.epoch {
		return false
	}
	fn(&c.state)
	c.emitLocked()
	return true
}

func (c *Controller) teardownLocked() {
	if c.sub != nil {
		_ = c.sub.Close()
		c.sub = nil
	}
}

func (c *Controller) emitLocked() {
	if c.closed {
		return
	}
	select {
	case <-c.updates:
	default:
	}
	c.updates <- c.state.clone()
}
