package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/streamgate/services/reaction-service/internal/application/reaction"
	"github.com/baechuer/streamgate/services/reaction-service/internal/domain"
	appCtx "github.com/baechuer/streamgate/services/reaction-service/internal/pkg/context"
	"github.com/baechuer/streamgate/services/reaction-service/internal/transport/http/dto"
	"github.com/baechuer/streamgate/services/reaction-service/internal/transport/http/response"
	"github.com/baechuer/streamgate/services/reaction-service/internal/transport/http/validate"
)

type ReactionsHandler struct {
	svc *reaction.Service
}

func NewReactionsHandler(svc *reaction.Service) *ReactionsHandler {
	return &ReactionsHandler{svc: svc}
}

func (h *ReactionsHandler) Ensure(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "video_id")
	id, err := h.svc.EnsureVideo(r.Context(), videoID)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.EnsureVideoResp{VideoID: videoID, ID: id})
}

// Counts answers with an empty list when the store is unavailable.
func (h *ReactionsHandler) Counts(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "video_id")
	counts, err := h.svc.GetCounts(r.Context(), videoID)
	if domain.IsValidation(err) {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToCountsResp(videoID, counts))
}

// Status answers with not-reacted when the store is unavailable.
func (h *ReactionsHandler) Status(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "video_id")
	st, err := h.svc.GetStatus(r.Context(), videoID, appCtx.GetIdentity(r.Context()))
	if domain.IsValidation(err) {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToStatusResp(videoID, st))
}

func (h *ReactionsHandler) Add(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "video_id")
	if err := domain.ValidateVideoID(videoID); err != nil {
		response.Err(w, r, err)
		return
	}

	var req dto.AddReactionReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, r, err)
		return
	}

	identity := appCtx.GetIdentity(r.Context())
	kind := domain.Kind(req.ReactionType)
	if err := h.svc.AddReaction(r.Context(), videoID, identity, kind); err != nil {
		response.Err(w, r, err)
		return
	}

	st, err := h.svc.GetStatus(r.Context(), videoID, identity)
	if err != nil || !st.HasReacted {
		// the write committed; report it even if the re-read lags
		st = domain.ReactedWith(kind)
	}
	response.Data(w, http.StatusCreated, dto.ToStatusResp(videoID, st))
}
