package proxy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	assert_ "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ztube-org/yt-dlp-api"
)

func TestRewriteManifest(t *testing.T) {
	assert := assert_.New(t)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.apple.mpegurl")
		_, _ = w.Write([]byte("#EXTM3U\nseg1.ts\n#EXT-X-ENDLIST\n"))
	}))
	defer upstream.Close()

	p := New(Config{Client: upstream.Client()})
	body, contentType, err := p.RewriteManifest(context.Background(), upstream.URL+"/path/index.m3u8")
	require.NoError(t, err)
	assert.Equal("application/vnd.apple.mpegurl", contentType)

	lines := strings.Split(string(body), "\n")
	require.Len(t, lines, 4)
	assert.Equal("#EXTM3U", lines[0])
	assert.Equal("#EXT-X-ENDLIST", lines[2])
	// Trailing newline preserved.
	assert.Equal("", lines[3])

	proxied, err := url.Parse(lines[1])
	require.NoError(t, err)
	assert.Equal("/seg_proxy", proxied.Path)
	assert.Equal(upstream.URL+"/path/seg1.ts", proxied.Query().Get("url"))
}

func TestRewriteManifestResolvesAgainstFinalURL(t *testing.T) {
	assert := assert_.New(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/moved.m3u8", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/real/index.m3u8", http.StatusFound)
	})
	mux.HandleFunc("/real/index.m3u8", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("#EXTM3U\nchunk0.ts\n"))
	})
	upstream := httptest.NewServer(mux)
	defer upstream.Close()

	p := New(Config{Client: upstream.Client()})
	body, _, err := p.RewriteManifest(context.Background(), upstream.URL+"/moved.m3u8")
	require.NoError(t, err)

	proxied, err := url.Parse(strings.Split(string(body), "\n")[1])
	require.NoError(t, err)
	assert.Equal(upstream.URL+"/real/chunk0.ts", proxied.Query().Get("url"))
}

func TestRewriteManifestKeepsAbsoluteURIs(t *testing.T) {
	assert := assert_.New(t)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("#EXTM3U\nhttps://media.example.com/seg/0.ts"))
	}))
	defer upstream.Close()

	p := New(Config{Client: upstream.Client()})
	body, _, err := p.RewriteManifest(context.Background(), upstream.URL+"/index.m3u8")
	require.NoError(t, err)

	lines := strings.Split(string(body), "\n")
	// No trailing newline upstream means none in the rewritten body either.
	require.Len(t, lines, 2)
	proxied, err := url.Parse(lines[1])
	require.NoError(t, err)
	assert.Equal("https://media.example.com/seg/0.ts", proxied.Query().Get("url"))
}

func TestRewriteManifestPreservesCRLF(t *testing.T) {
	assert := assert_.New(t)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("#EXTM3U\r\nseg1.ts\r\n#EXT-X-ENDLIST\r\n"))
	}))
	defer upstream.Close()

	p := New(Config{Client: upstream.Client()})
	body, _, err := p.RewriteManifest(context.Background(), upstream.URL+"/index.m3u8")
	require.NoError(t, err)

	// Rewritten URI lines keep the manifest's CRLF endings like the directive lines do.
	lines := strings.Split(string(body), "\n")
	assert.Equal("#EXTM3U\r", lines[0])
	assert.True(strings.HasSuffix(lines[1], "\r"))
	proxied, err := url.Parse(strings.TrimSuffix(lines[1], "\r"))
	require.NoError(t, err)
	assert.Equal("/seg_proxy", proxied.Path)
	assert.Equal(upstream.URL+"/seg1.ts", proxied.Query().Get("url"))
}

func TestRewriteManifestDefaultsContentType(t *testing.T) {
	assert := assert_.New(t)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = []string{}
		_, _ = w.Write([]byte("#EXTM3U\n"))
	}))
	defer upstream.Close()

	p := New(Config{Client: upstream.Client()})
	_, contentType, err := p.RewriteManifest(context.Background(), upstream.URL+"/index.m3u8")
	require.NoError(t, err)
	assert.Equal("application/vnd.apple.mpegurl", contentType)
}

func TestRewriteManifestInputValidation(t *testing.T) {
	assert := assert_.New(t)
	p := New(Config{})

	_, _, err := p.RewriteManifest(context.Background(), "https://host.example.com/video.mp4")
	assert.ErrorIs(err, yt_dlp_api.ErrBadInput)

	_, _, err = p.RewriteManifest(context.Background(), "relative/index.m3u8")
	assert.ErrorIs(err, yt_dlp_api.ErrBadInput)
}

func TestRewriteManifestUpstreamErrors(t *testing.T) {
	assert := assert_.New(t)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	p := New(Config{Client: upstream.Client()})

	_, _, err := p.RewriteManifest(context.Background(), upstream.URL+"/index.m3u8")
	var statusErr *yt_dlp_api.UpstreamStatusError
	if assert.ErrorAs(err, &statusErr) {
		assert.Equal(http.StatusForbidden, statusErr.StatusCode)
	}

	// A dead upstream is a transport failure, not a status pass-through.
	upstream.Close()
	_, _, err = p.RewriteManifest(context.Background(), upstream.URL+"/index.m3u8")
	assert.ErrorIs(err, yt_dlp_api.ErrUpstreamUnreachable)
}
