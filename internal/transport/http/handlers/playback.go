package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/streamgate/services/reaction-service/internal/application/reaction"
	"github.com/baechuer/streamgate/services/reaction-service/internal/application/session"
	"github.com/baechuer/streamgate/services/reaction-service/internal/domain"
	appCtx "github.com/baechuer/streamgate/services/reaction-service/internal/pkg/context"
	"github.com/baechuer/streamgate/services/reaction-service/internal/transport/http/dto"
	"github.com/baechuer/streamgate/services/reaction-service/internal/transport/http/response"
)

const CodeReactRequired = "react_required"

// StreamLinker resolves the playable location of a video.
type StreamLinker interface {
	StreamURL(ctx context.Context, videoID string) (string, error)
}

type PlaybackHandler struct {
	svc    *reaction.Service
	linker StreamLinker
}

func NewPlaybackHandler(svc *reaction.Service, linker StreamLinker) *PlaybackHandler {
	return &PlaybackHandler{svc: svc, linker: linker}
}

// decide runs the gate on a fully loaded status. A failed status read
// counts as not reacted.
func (h *PlaybackHandler) decide(r *http.Request, videoID string) (session.Decision, error) {
	st, err := h.svc.GetStatus(r.Context(), videoID, appCtx.GetIdentity(r.Context()))
	if domain.IsValidation(err) {
		return "", err
	}
	return session.Decide(session.State{
		VideoID:    videoID,
		Phase:      session.PhaseReady,
		HasReacted: st.HasReacted,
	}), nil
}

func (h *PlaybackHandler) Decision(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "video_id")
	d, err := h.decide(r, videoID)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToPlaybackResp(videoID, d))
}

// Watch redirects to the stream once the caller has reacted.
func (h *PlaybackHandler) Watch(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "video_id")
	d, err := h.decide(r, videoID)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	if d != session.DecisionOpen {
		response.Fail(w, http.StatusForbidden, CodeReactRequired, "react to this video to start playback",
			map[string]string{"video_id": videoID}, appCtx.GetRequestID(r.Context()))
		return
	}

	link, err := h.linker.StreamURL(r.Context(), videoID)
	if err != nil {
		zlog.Error().Err(err).Str("video_id", videoID).Msg("stream_link_failed")
		response.Err(w, r, domain.ErrUnavailable("stream link unavailable"))
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, link, http.StatusTemporaryRedirect)
}
