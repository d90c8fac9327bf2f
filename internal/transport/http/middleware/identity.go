package middleware

import (
	"net/http"

	"github.com/baechuer/streamgate/services/reaction-service/internal/application/identity"
	appCtx "github.com/baechuer/streamgate/services/reaction-service/internal/pkg/context"
)

// Identity resolves the caller identity once per request and stores it in
// the request context.
func Identity(resolver identity.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := resolver.Resolve(r.Context(), identity.PeerFromRequest(r))
			next.ServeHTTP(w, r.WithContext(appCtx.WithIdentity(r.Context(), id)))
		})
	}
}
