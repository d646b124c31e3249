package proxy

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/ztube-org/yt-dlp-api"
	"github.com/ztube-org/yt-dlp-api/util"
)

// RewriteManifest fetches the upstream playlist at rawURL and rewrites every media URI
// line into a self-referencing segment-proxy URL. Comment/directive lines, blank lines
// and trailing-newline presence are preserved byte-for-byte. Returns the rewritten body
// and the response content type.
func (p *Proxy) RewriteManifest(ctx context.Context, rawURL string) ([]byte, string, error) {
	if !strings.HasSuffix(rawURL, yt_dlp_api.ManifestSuffix) {
		return nil, "", fmt.Errorf("%w: url must end with %s", yt_dlp_api.ErrBadInput, yt_dlp_api.ManifestSuffix)
	}
	if _, err := util.ParseAbsoluteURL(rawURL); err != nil {
		return nil, "", fmt.Errorf("%w: %v", yt_dlp_api.ErrBadInput, err)
	}

	resp, err := p.fetch(ctx, rawURL)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", yt_dlp_api.ErrUpstreamUnreachable, err)
	}

	// Segment URIs resolve against the final URL after redirects, not the requested one.
	base := resp.Request.URL
	rewritten := p.rewriteLines(string(body), base)
	p.log.Debugf("rewrote manifest %s (%d bytes)", base, len(rewritten))

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultManifestContentType
	}
	return []byte(rewritten), contentType, nil
}

func (p *Proxy) rewriteLines(body string, base *url.URL) string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		line, crlf := strings.CutSuffix(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		rewritten := p.segmentURL(base, trimmed)
		if crlf {
			// Keep the original line ending, so CRLF manifests stay CRLF throughout.
			rewritten += "\r"
		}
		lines[i] = rewritten
	}
	return strings.Join(lines, "\n")
}

// segmentURL turns a (possibly relative) media URI into a proxied URL carrying the
// absolute upstream URL as a percent-encoded query parameter.
func (p *Proxy) segmentURL(base *url.URL, uri string) string {
	ref, err := url.Parse(uri)
	if err != nil {
		// Not something we can resolve; leave the line alone.
		return uri
	}
	absolute := base.ResolveReference(ref)
	query := url.Values{"url": {absolute.String()}}
	return p.segmentRoute + "?" + query.Encode()
}
