package reaction

import (
	"time"

	"github.com/baechuer/streamgate/services/reaction-service/internal/domain"
)

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

type Service struct {
	videos    VideoRepo
	reactions ReactionRepo
	known     KnownVideoCache
	notifier  ChangeNotifier
	pub       EventPublisher
	clock     Clock
	kinds     domain.KindSet

	knownTTL time.Duration
}

type Option func(*Service)

func WithKnownVideoCache(c KnownVideoCache, ttl time.Duration) Option {
	return func(s *Service) {
		s.known = c
		if ttl > 0 {
			s.knownTTL = ttl
		}
	}
}

func WithPublisher(p EventPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.pub = p
		}
	}
}

func WithClock(c Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

func WithKinds(ks domain.KindSet) Option {
	return func(s *Service) {
		if ks.Len() > 0 {
			s.kinds = ks
		}
	}
}

func New(videos VideoRepo, reactions ReactionRepo, notifier ChangeNotifier, opts ...Option) *Service {
	s := &Service{
		videos:    videos,
		reactions: reactions,
		notifier:  notifier,
		pub:       NoopPublisher{},
		clock:     systemClock{},
		kinds:     domain.NewKindSet(domain.DefaultKinds...),
		knownTTL:  24 * time.Hour,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) Kinds() domain.KindSet { return s.kinds }

func (s *Service) Notifier() ChangeNotifier { return s.notifier }
