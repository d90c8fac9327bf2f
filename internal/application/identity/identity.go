package identity

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/baechuer/streamgate/services/reaction-service/internal/domain"
)

// Peer is the part of an inbound request identity resolution looks at.
type Peer struct {
	Header     http.Header
	RemoteAddr string
}

func PeerFromRequest(r *http.Request) Peer {
	return Peer{Header: r.Header.Clone(), RemoteAddr: r.RemoteAddr}
}

// ClientIP picks the caller address: first X-Forwarded-For hop, then
// CF-Connecting-IP, then X-Real-IP, then the socket peer, else 0.0.0.0.
func ClientIP(p Peer) string {
	if xff := p.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(p.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(p.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if p.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(p.RemoteAddr); err == nil && host != "" {
			return host
		}
		return p.RemoteAddr
	}
	return domain.UnknownPeer
}

// Resolver turns a peer into the identity used for reaction dedup.
// It never fails; implementations fall back to a fixed identity.
type Resolver interface {
	Resolve(ctx context.Context, p Peer) string
}

// HeaderResolver reads the identity straight from the request.
type HeaderResolver struct{}

func (HeaderResolver) Resolve(ctx context.Context, p Peer) string { return ClientIP(p) }

// Bind fixes a resolver to one peer, for consumers that resolve lazily.
func Bind(r Resolver, p Peer) Bound {
	return Bound{resolver: r, peer: p}
}

type Bound struct {
	resolver Resolver
	peer     Peer
}

func (b Bound) ResolveIdentity(ctx context.Context) string {
	return b.resolver.Resolve(ctx, b.peer)
}
