package handlers

import (
	"net/http"

	"github.com/baechuer/streamgate/services/reaction-service/internal/application/identity"
	"github.com/baechuer/streamgate/services/reaction-service/internal/transport/http/dto"
	"github.com/baechuer/streamgate/services/reaction-service/internal/transport/http/response"
)

// ClientIP echoes the caller address as seen through proxies. Other
// instances can use it as their IDENTITY_LOOKUP_URL.
func ClientIP(w http.ResponseWriter, r *http.Request) {
	response.Data(w, http.StatusOK, dto.ClientIPResp{IP: identity.ClientIP(identity.PeerFromRequest(r))})
}
