package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/streamgate/services/reaction-service/internal/application/analytics"
	"github.com/baechuer/streamgate/services/reaction-service/internal/domain"
	appCtx "github.com/baechuer/streamgate/services/reaction-service/internal/pkg/context"
	"github.com/baechuer/streamgate/services/reaction-service/internal/transport/http/dto"
	"github.com/baechuer/streamgate/services/reaction-service/internal/transport/http/response"
	"github.com/baechuer/streamgate/services/reaction-service/internal/transport/http/validate"
)

type AnalyticsHandler struct {
	svc *analytics.Service
}

func NewAnalyticsHandler(svc *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func (h *AnalyticsHandler) Track(w http.ResponseWriter, r *http.Request) {
	var req dto.TrackEventReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, r, err)
		return
	}

	err := h.svc.Track(r.Context(), analytics.TrackCmd{
		VideoID:          chi.URLParam(r, "video_id"),
		Identity:         appCtx.GetIdentity(r.Context()),
		Type:             domain.EventType(req.EventType),
		TimestampSeconds: req.TimestampSeconds,
		UserAgent:        r.UserAgent(),
		Referrer:         r.Referer(),
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusAccepted, map[string]bool{"accepted": true})
}
