package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/baechuer/streamgate/services/reaction-service/internal/application/identity"
	"github.com/baechuer/streamgate/services/reaction-service/internal/config"
	"github.com/baechuer/streamgate/services/reaction-service/internal/metrics"
	"github.com/baechuer/streamgate/services/reaction-service/internal/tracing"
	"github.com/baechuer/streamgate/services/reaction-service/internal/transport/http/handlers"
	mw "github.com/baechuer/streamgate/services/reaction-service/internal/transport/http/middleware"
)

type Handlers struct {
	Health    *handlers.HealthHandler
	Reactions *handlers.ReactionsHandler
	Playback  *handlers.PlaybackHandler
	Analytics *handlers.AnalyticsHandler
	Admin     *handlers.AdminHandler
	Live      *handlers.LiveHandler
}

func New(h Handlers, auth *mw.AuthMiddleware, resolver identity.Resolver, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.SecurityHeaders)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(mw.Metrics)
	r.Use(mw.AccessLog)
	if cfg.OTelEnabled {
		r.Use(mw.Tracing(tracing.ServiceName))
	}

	r.Get("/healthz", h.Health.Healthz)
	r.Get("/readyz", h.Health.Readyz)
	r.Handle("/metrics", metrics.Handler())

	withIdentity := mw.Identity(resolver)

	r.With(withIdentity).Get("/watch/{video_id}", h.Playback.Watch)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/client-ip", handlers.ClientIP)

		r.Route("/videos/{video_id}", func(r chi.Router) {
			r.Post("/ensure", h.Reactions.Ensure)
			r.Get("/reactions", h.Reactions.Counts)
			r.Get("/live", h.Live.Serve)

			r.Group(func(r chi.Router) {
				r.Use(withIdentity)
				r.Get("/reactions/me", h.Reactions.Status)
				r.Get("/playback", h.Playback.Decision)
				r.Post("/events", h.Analytics.Track)

				if cfg.RLEnabled {
					r.With(httprate.LimitByIP(cfg.RLLimit, cfg.RLWindow)).Post("/reactions", h.Reactions.Add)
				} else {
					r.Post("/reactions", h.Reactions.Add)
				}
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Get("/reactions", h.Admin.AllReactions)
			r.Get("/analytics", h.Admin.Analytics)
		})
	})

	return r
}
