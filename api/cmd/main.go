package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/streamgate/services/reaction-service/internal/application/analytics"
	"github.com/baechuer/streamgate/services/reaction-service/internal/application/identity"
	"github.com/baechuer/streamgate/services/reaction-service/internal/application/reaction"
	"github.com/baechuer/streamgate/services/reaction-service/internal/config"
	"github.com/baechuer/streamgate/services/reaction-service/internal/domain"
	cache "github.com/baechuer/streamgate/services/reaction-service/internal/infrastructure/caching/redis"
	"github.com/baechuer/streamgate/services/reaction-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/streamgate/services/reaction-service/internal/infrastructure/memory"
	rabbitpub "github.com/baechuer/streamgate/services/reaction-service/internal/infrastructure/messaging/rabbitmq"
	hub "github.com/baechuer/streamgate/services/reaction-service/internal/infrastructure/pubsub/memory"
	redisnotify "github.com/baechuer/streamgate/services/reaction-service/internal/infrastructure/pubsub/redis"
	"github.com/baechuer/streamgate/services/reaction-service/internal/infrastructure/storage"
	"github.com/baechuer/streamgate/services/reaction-service/internal/logger"
	"github.com/baechuer/streamgate/services/reaction-service/internal/tracing"
	"github.com/baechuer/streamgate/services/reaction-service/internal/transport/http/handlers"
	authmw "github.com/baechuer/streamgate/services/reaction-service/internal/transport/http/middleware"
	"github.com/baechuer/streamgate/services/reaction-service/internal/transport/http/router"
)

var version = "dev"

// sysClock implements the application Clock interfaces using system time
type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now().UTC() }

// reactionStore is what the reaction and analytics services need from a backend.
type reactionStore interface {
	reaction.VideoRepo
	reaction.ReactionRepo
	analytics.Repo
}

// App holds all dependencies for the service
type App struct {
	Config *config.Config
	Server *http.Server
	DB     *sql.DB
	Redis  *cache.Client

	Publisher *rabbitpub.Publisher
}

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("config load failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.Init(ctx, tracing.Config{
		ServiceName:    tracing.ServiceName,
		ServiceVersion: version,
		OTLPEndpoint:   cfg.OTelEndpoint,
		Enabled:        cfg.OTelEnabled,
	})
	if err != nil {
		zlog.Fatal().Err(err).Msg("tracing init failed")
	}

	var db *sql.DB
	if cfg.StoreDriver == config.StoreDriverPostgres {
		db, err = postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			zlog.Fatal().Err(err).Msg("db open failed")
		}
		if cfg.DBMigrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				zlog.Fatal().Err(err).Msg("db migrate failed")
			}
			zlog.Info().Msg("db migrations applied")
		}
	} else {
		zlog.Warn().Msg("STORE_DRIVER=memory: reactions are not persisted")
	}

	var rc *cache.Client
	if cfg.RedisURL != "" {
		rc, err = cache.New(cfg.RedisURL)
		if err != nil {
			zlog.Fatal().Err(err).Msg("redis connect failed")
		}
	}

	app, err := NewApp(ctx, cfg, db, rc)
	if err != nil {
		zlog.Fatal().Err(err).Msg("app init failed")
	}
	defer app.Close()

	errCh := make(chan error, 1)
	go func() {
		zlog.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.StoreDriver).Str("notifier", cfg.Notifier).Msg("listening")
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		zlog.Info().Msg("shutdown_requested")
	case err := <-errCh:
		zlog.Error().Err(err).Msg("server crashed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Err(err).Msg("server shutdown failed")
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		zlog.Warn().Err(err).Msg("tracing shutdown failed")
	}
}

// NewApp wires the service. A nil db selects the in-memory store; a nil
// redis client disables the known-video memo and the redis notifier.
func NewApp(ctx context.Context, cfg *config.Config, db *sql.DB, rc *cache.Client) (*App, error) {
	// 1) Infrastructure
	deps := map[string]handlers.Pinger{}

	var store reactionStore
	if db != nil {
		repo := postgres.New(db)
		deps["postgres"] = repo
		store = repo
	} else {
		store = memory.NewStore()
	}

	var notifier reaction.ChangeNotifier = hub.NewHub()
	opts := []reaction.Option{reaction.WithKinds(domain.ParseKinds(cfg.ReactionKinds))}
	if rc != nil {
		deps["redis"] = rc
		opts = append(opts, reaction.WithKnownVideoCache(rc, cfg.KnownVideoTTL))
		if cfg.Notifier == config.NotifierRedis {
			notifier = redisnotify.NewNotifier(rc.GetRawClient())
		}
	}

	var rabbit *rabbitpub.Publisher
	if cfg.RabbitURL != "" {
		p, err := rabbitpub.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			return nil, err
		}
		rabbit = p
		opts = append(opts, reaction.WithPublisher(p))
		zlog.Info().Str("exchange", cfg.RabbitExchange).Msg("rabbit publisher ready")
	} else {
		zlog.Warn().Msg("RABBIT_URL empty: domain events will not be published")
	}

	var resolver identity.Resolver = identity.HeaderResolver{}
	if cfg.IdentityLookupURL != "" {
		resolver = identity.NewLookupResolver(cfg.IdentityLookupURL, cfg.IdentityFallback, 3*time.Second)
	}

	var linker handlers.StreamLinker = storage.NewHostLinker(cfg.StreamBaseURL)
	if cfg.StreamS3Bucket != "" {
		l, err := storage.NewS3Linker(ctx, storage.S3Config{
			Bucket:          cfg.StreamS3Bucket,
			Region:          cfg.AWSRegion,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretKey,
			UsePathStyle:    cfg.S3UsePathStyle,
			TTL:             cfg.StreamLinkTTL,
		})
		if err != nil {
			if rabbit != nil {
				_ = rabbit.Close()
			}
			return nil, err
		}
		linker = l
	}

	// 2) Application
	reactions := reaction.New(store, store, notifier, append(opts, reaction.WithClock(sysClock{}))...)
	stats := analytics.New(store, reactions, sysClock{})

	// 3) Transport
	h := router.Handlers{
		Health:    handlers.NewHealthHandler(deps),
		Reactions: handlers.NewReactionsHandler(reactions),
		Playback:  handlers.NewPlaybackHandler(reactions, linker),
		Analytics: handlers.NewAnalyticsHandler(stats),
		Admin:     handlers.NewAdminHandler(reactions, stats),
		Live: handlers.NewLiveHandler(reactions, resolver, handlers.LiveConfig{
			ReconcileDelay: cfg.ReconcileDelay,
			IdleTimeout:    cfg.SessionIdleTime,
			OriginPatterns: cfg.LiveOrigins,
		}),
	}
	auth := authmw.NewAuth(cfg.JWTSecret, cfg.JWTIssuer)

	// 4) Router + server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router.New(h, auth, resolver, cfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return &App{
		Config:    cfg,
		Server:    srv,
		DB:        db,
		Redis:     rc,
		Publisher: rabbit,
	}, nil
}

func (a *App) Close() {
	if a.Publisher != nil {
		_ = a.Publisher.Close()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}
