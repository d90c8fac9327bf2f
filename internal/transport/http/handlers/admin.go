package handlers

import (
	"net/http"

	"github.com/baechuer/streamgate/services/reaction-service/internal/application/analytics"
	"github.com/baechuer/streamgate/services/reaction-service/internal/application/reaction"
	"github.com/baechuer/streamgate/services/reaction-service/internal/transport/http/dto"
	"github.com/baechuer/streamgate/services/reaction-service/internal/transport/http/response"
)

type AdminHandler struct {
	reactions *reaction.Service
	analytics *analytics.Service
}

func NewAdminHandler(reactions *reaction.Service, analytics *analytics.Service) *AdminHandler {
	return &AdminHandler{reactions: reactions, analytics: analytics}
}

func (h *AdminHandler) AllReactions(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reactions.AllCounts(r.Context())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToVideoCountResps(rows))
}

func (h *AdminHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	o, err := h.analytics.Overview(r.Context())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToAnalyticsOverviewResp(o))
}
