package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/streamgate/services/reaction-service/internal/application/identity"
	"github.com/baechuer/streamgate/services/reaction-service/internal/application/reaction"
	"github.com/baechuer/streamgate/services/reaction-service/internal/application/session"
	"github.com/baechuer/streamgate/services/reaction-service/internal/domain"
	"github.com/baechuer/streamgate/services/reaction-service/internal/transport/http/dto"
)

const writeTimeout = 5 * time.Second

type LiveConfig struct {
	ReconcileDelay time.Duration
	IdleTimeout    time.Duration
	OriginPatterns []string
}

// LiveHandler serves one session controller per WebSocket connection.
type LiveHandler struct {
	svc      *reaction.Service
	resolver identity.Resolver
	cfg      LiveConfig
}

func NewLiveHandler(svc *reaction.Service, resolver identity.Resolver, cfg LiveConfig) *LiveHandler {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 30 * time.Minute
	}
	return &LiveHandler{svc: svc, resolver: resolver, cfg: cfg}
}

func (h *LiveHandler) Serve(w http.ResponseWriter, r *http.Request) {
	// server read/write timeouts must not apply to the upgraded connection
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.cfg.OriginPatterns})
	if err != nil {
		zlog.Warn().Err(err).Msg("live_accept_failed")
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ctrl := session.NewController(ctx, h.svc, h.svc.Notifier(),
		identity.Bind(h.resolver, identity.PeerFromRequest(r)), h.cfg.ReconcileDelay)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for st := range ctrl.Updates() {
			if err := writeFrame(ctx, conn, dto.ToStateFrame(st)); err != nil {
				cancel()
				return
			}
		}
	}()

	if err := ctrl.SetVideo(chi.URLParam(r, "video_id")); err != nil {
		_ = writeFrame(ctx, conn, dto.ToErrorFrame(err))
	}

	err = h.readLoop(ctx, conn, ctrl)
	_ = ctrl.Close()
	<-writerDone

	switch {
	case err == nil, errors.Is(err, context.Canceled):
		conn.Close(websocket.StatusNormalClosure, "")
	case websocket.CloseStatus(err) != -1:
		// peer closed
	case errors.Is(err, context.DeadlineExceeded):
		conn.Close(websocket.StatusGoingAway, "idle")
	default:
		zlog.Debug().Err(err).Msg("live_read_failed")
		conn.Close(websocket.StatusInternalError, "")
	}
}

func (h *LiveHandler) readLoop(ctx context.Context, conn *websocket.Conn, ctrl *session.Controller) error {
	for {
		var f dto.LiveFrame
		rctx, cancel := context.WithTimeout(ctx, h.cfg.IdleTimeout)
		err := wsjson.Read(rctx, conn, &f)
		cancel()
		if err != nil {
			return err
		}

		switch f.Type {
		case dto.FrameWatch:
			err = ctrl.SetVideo(f.VideoID)
		case dto.FrameReact:
			err = ctrl.AddReaction(ctx, domain.Kind(f.ReactionType))
		default:
			err = domain.ErrValidationMeta("unknown frame type", map[string]string{"type": "must be watch or react"})
		}
		if err != nil {
			if werr := writeFrame(ctx, conn, dto.ToErrorFrame(err)); werr != nil {
				return werr
			}
		}
	}
}

func writeFrame(ctx context.Context, conn *websocket.Conn, v any) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, v)
}
