package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	zlog "github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/baechuer/streamgate/services/reaction-service/internal/domain"
	"github.com/baechuer/streamgate/services/reaction-service/internal/metrics"
)

const maxLookupBody = 4 << 10

// LookupResolver asks an external service which address the caller has.
// Forwarding headers of the caller are passed through so the service sees
// the visitor rather than this process.
type LookupResolver struct {
	url      string
	fallback string
	client   *http.Client
}

func NewLookupResolver(url, fallback string, timeout time.Duration) *LookupResolver {
	if fallback == "" {
		fallback = domain.FallbackIdentity
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &LookupResolver{
		url:      url,
		fallback: fallback,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// WithHTTPClient replaces the client used for lookups.
func (l *LookupResolver) WithHTTPClient(c *http.Client) *LookupResolver {
	l.client = c
	return l
}

func (l *LookupResolver) Resolve(ctx context.Context, p Peer) string {
	ip, err := l.lookup(ctx, p)
	if err != nil {
		metrics.RecordIdentityFallback()
		zlog.Warn().Err(err).Str("fallback", l.fallback).Msg("identity_lookup_failed")
		return l.fallback
	}
	return ip
}

type lookupPayload struct {
	IP   string `json:"ip"`
	Data *struct {
		IP string `json:"ip"`
	} `json:"data"`
}

func (l *LookupResolver) lookup(ctx context.Context, p Peer) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	if ip := ClientIP(p); ip != domain.UnknownPeer {
		req.Header.Set("X-Forwarded-For", ip)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lookup status %d", resp.StatusCode)
	}

	var body lookupPayload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxLookupBody)).Decode(&body); err != nil {
		return "", fmt.Errorf("decode lookup payload: %w", err)
	}

	ip := strings.TrimSpace(body.IP)
	if ip == "" && body.Data != nil {
		ip = strings.TrimSpace(body.Data.IP)
	}
	if ip == "" {
		return "", fmt.Errorf("lookup payload missing ip")
	}
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("lookup payload has malformed ip %q", ip)
	}
	return ip, nil
}
