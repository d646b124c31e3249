// Package youtube extracts metadata natively via github.com/kkdai/youtube.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kkdai/youtube/v2"

	"github.com/ztube-org/yt-dlp-api"
	"github.com/ztube-org/yt-dlp-api/internal/extractor"
)

const Name = "youtube"

type client struct {
	yt youtube.Client
}

// New creates a native YouTube client. It needs no configuration.
func New(extractor.Config) (extractor.Client, error) {
	return &client{}, nil
}

func (c *client) Video(ctx context.Context, id string) (yt_dlp_api.RawInfo, error) {
	video, err := c.yt.GetVideoContext(ctx, id)
	if err != nil {
		return nil, classify(err)
	}

	formats := make([]any, 0, len(video.Formats))
	for _, f := range video.Formats {
		formats = append(formats, rawFormat(f))
	}
	info := map[string]any{
		"id":       video.ID,
		"title":    video.Title,
		"uploader": video.Author,
		"duration": int64(video.Duration / time.Second),
		"formats":  formats,
	}
	return info, nil
}

func (c *client) Playlist(ctx context.Context, id string) (yt_dlp_api.RawInfo, error) {
	playlist, err := c.yt.GetPlaylistContext(ctx, id)
	if err != nil {
		return nil, classify(err)
	}

	entries := make([]any, 0, len(playlist.Videos))
	for _, v := range playlist.Videos {
		entries = append(entries, map[string]any{
			"id":       v.ID,
			"title":    v.Title,
			"uploader": v.Author,
			"duration": int64(v.Duration / time.Second),
		})
	}
	info := map[string]any{
		"id":       playlist.ID,
		"title":    playlist.Title,
		"uploader": playlist.Author,
		"entries":  entries,
	}
	return info, nil
}

func rawFormat(f youtube.Format) map[string]any {
	raw := map[string]any{
		"format_id": strconv.Itoa(f.ItagNo),
		"ext":       ext(f.MimeType),
		"url":       f.URL,
	}
	if f.Width > 0 {
		raw["width"] = f.Width
	}
	if f.Height > 0 {
		raw["height"] = f.Height
	}
	if f.FPS > 0 {
		raw["fps"] = float64(f.FPS)
	}
	if f.Bitrate > 0 {
		raw["tbr"] = float64(f.Bitrate) / 1000
	}
	if f.ContentLength > 0 {
		raw["filesize"] = f.ContentLength
	}
	return raw
}

// ext derives the container extension from a MIME type, using yt-dlp's naming so the
// selector's fixed container checks apply to both clients.
func ext(mimeType string) string {
	mediaType := strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])
	switch mediaType {
	case "audio/mp4":
		return "m4a"
	}
	parts := strings.SplitN(mediaType, "/", 2)
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}

func classify(err error) error {
	var status *youtube.ErrPlayabiltyStatus
	switch {
	case errors.As(err, &status),
		errors.Is(err, youtube.ErrInvalidPlaylist),
		errors.Is(err, youtube.ErrInvalidCharactersInVideoID),
		errors.Is(err, youtube.ErrVideoIDMinLength):
		return fmt.Errorf("%v: %w", err, yt_dlp_api.ErrUnavailable)
	}
	return fmt.Errorf("youtube: %w", err)
}

func init() {
	extractor.DefaultRegistry.MustRegister(Name, New)
}
