// Package proxy fetches upstream HLS manifests and media segments on behalf of clients,
// rewriting manifests so segment URIs route back through this service.
package proxy

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/ztube-org/yt-dlp-api"
)

const (
	// DefaultSegmentHostSuffix is the only upstream domain the segment proxy will relay
	// for. Manifests are fetched from any host; binary payloads are not.
	DefaultSegmentHostSuffix = ".googlevideo.com"

	defaultManifestContentType = "application/vnd.apple.mpegurl"
	defaultSegmentContentType  = "application/octet-stream"
)

// Config for a Proxy. Zero values fall back to defaults.
type Config struct {
	// Client performs the upstream fetches; operators configure timeouts there.
	Client *http.Client
	// SegmentRoute is the path of the segment proxy endpoint rewritten manifests point at.
	SegmentRoute string
	// SegmentHostSuffix is the allowed upstream host suffix for segment fetches.
	SegmentHostSuffix string
}

// Proxy implements the manifest-rewriting and segment-relaying operations. Stateless per
// request; safe for concurrent use.
type Proxy struct {
	client            *http.Client
	segmentRoute      string
	segmentHostSuffix string
	log               *zap.SugaredLogger
}

func New(cfg Config) *Proxy {
	p := &Proxy{
		client:            cfg.Client,
		segmentRoute:      cfg.SegmentRoute,
		segmentHostSuffix: cfg.SegmentHostSuffix,
		log:               zap.S().Named("proxy"),
	}
	if p.client == nil {
		p.client = http.DefaultClient
	}
	if p.segmentRoute == "" {
		p.segmentRoute = "/seg_proxy"
	}
	if p.segmentHostSuffix == "" {
		p.segmentHostSuffix = DefaultSegmentHostSuffix
	}
	return p
}

// fetch GETs rawURL, mapping transport failures and upstream error statuses onto the
// shared error taxonomy. The caller owns the response body on success.
func (p *Proxy) fetch(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", yt_dlp_api.ErrBadInput, err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", yt_dlp_api.ErrUpstreamUnreachable, err)
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, &yt_dlp_api.UpstreamStatusError{StatusCode: resp.StatusCode}
	}
	return resp, nil
}
