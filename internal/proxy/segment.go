package proxy

import (
	"context"
	"fmt"
	"io"

	"github.com/ztube-org/yt-dlp-api"
	"github.com/ztube-org/yt-dlp-api/util"
)

// OpenSegment fetches a single upstream media segment for byte-for-byte forwarding. The
// upstream host must end with the configured trusted suffix, keeping the proxy from
// relaying arbitrary hosts' bandwidth. Returns the body stream (owned by the caller),
// content type, and content length (-1 when unknown).
func (p *Proxy) OpenSegment(ctx context.Context, rawURL string) (io.ReadCloser, string, int64, error) {
	u, err := util.ParseAbsoluteURL(rawURL)
	if err != nil {
		return nil, "", 0, fmt.Errorf("%w: %v", yt_dlp_api.ErrBadInput, err)
	}
	if !util.HostHasSuffix(u, p.segmentHostSuffix) {
		return nil, "", 0, fmt.Errorf("%w: host %q is not an allowed upstream", yt_dlp_api.ErrBadInput, u.Hostname())
	}

	resp, err := p.fetch(ctx, rawURL)
	if err != nil {
		return nil, "", 0, err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultSegmentContentType
	}
	return resp.Body, contentType, resp.ContentLength, nil
}
