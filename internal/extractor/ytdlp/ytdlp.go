// Package ytdlp extracts metadata by running the yt-dlp executable.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/ztube-org/yt-dlp-api"
	"github.com/ztube-org/yt-dlp-api/internal/extractor"
)

const Name = "yt-dlp"

type client struct {
	path string
	log  *zap.SugaredLogger
}

// New creates a yt-dlp subprocess client using cfg.YTDLPPath (default "yt-dlp" on PATH).
func New(cfg extractor.Config) (extractor.Client, error) {
	path := cfg.YTDLPPath
	if path == "" {
		path = "yt-dlp"
	}
	return &client{
		path: path,
		log:  zap.S().Named("ytdlp"),
	}, nil
}

func (c *client) Video(ctx context.Context, id string) (yt_dlp_api.RawInfo, error) {
	pageURL := "https://www.youtube.com/watch?v=" + url.QueryEscape(id)
	return c.extract(ctx, pageURL, "--no-playlist")
}

func (c *client) Playlist(ctx context.Context, id string) (yt_dlp_api.RawInfo, error) {
	pageURL := "https://www.youtube.com/playlist?list=" + url.QueryEscape(id)
	return c.extract(ctx, pageURL, "--flat-playlist")
}

// extract runs `yt-dlp -J` and decodes the single JSON document it prints.
func (c *client) extract(ctx context.Context, pageURL string, extra ...string) (yt_dlp_api.RawInfo, error) {
	args := append([]string{"-J", "--no-warnings"}, extra...)
	args = append(args, pageURL)
	cmd := exec.CommandContext(ctx, c.path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.log.Debugf("running %s %s", c.path, strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		// yt-dlp reports extraction problems (missing, private, region-locked resources)
		// as "ERROR:" lines on stderr; anything else is a tooling failure.
		if line := errorLine(stderr.String()); line != "" {
			return nil, fmt.Errorf("%s: %w", line, yt_dlp_api.ErrUnavailable)
		}
		return nil, fmt.Errorf("yt-dlp: %w", err)
	}

	var info map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return nil, fmt.Errorf("decoding yt-dlp output: %w", err)
	}
	return yt_dlp_api.RawInfo(info), nil
}

func errorLine(stderr string) string {
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "ERROR:") {
			return line
		}
	}
	return ""
}

func init() {
	extractor.DefaultRegistry.MustRegister(Name, New)
}
