package yt_dlp_api

// A StreamVariant is one concrete deliverable stream for a video. Optional fields are nil
// when the upstream descriptor did not carry a usable value. Values are snapshots: once
// constructed, a StreamVariant is never mutated.
type StreamVariant struct {
	FormatID       string   `json:"format_id"`
	Ext            string   `json:"ext"`
	URL            string   `json:"url"`
	Width          *int64   `json:"width,omitempty"`
	Height         *int64   `json:"height,omitempty"`
	FPS            *float64 `json:"fps,omitempty"`
	Bitrate        *float64 `json:"bitrate,omitempty"`
	Filesize       *int64   `json:"filesize,omitempty"`
	FilesizeApprox *int64   `json:"filesize_approx,omitempty"`
	// ProxiedURL is only set on HLS variants, pointing the manifest fetch back through
	// this service.
	ProxiedURL string `json:"proxied_url,omitempty"`
}

// VideoMetadata is the response payload for a single video. VideoFormats is ordered by
// the fixed progressive priority list, HLSFormats keeps upstream order, and there is at
// most one AudioFormat.
type VideoMetadata struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Duration     *int64          `json:"duration,omitempty"`
	Uploader     *string         `json:"uploader,omitempty"`
	ChannelID    *string         `json:"channel_id,omitempty"`
	VideoFormats []StreamVariant `json:"video_formats"`
	HLSFormats   []StreamVariant `json:"hls_formats"`
	AudioFormat  *StreamVariant  `json:"audio_format,omitempty"`
}

// HasStreams reports whether the lookup produced any usable progressive or audio stream.
// A VideoMetadata for which this is false is a negative result: it is returned to the
// caller but must not stay in the cache. HLS variants deliberately don't count.
func (m VideoMetadata) HasStreams() bool {
	return len(m.VideoFormats) > 0 || m.AudioFormat != nil
}

// PlaylistEntrySummary is the per-video slice of a playlist listing.
type PlaylistEntrySummary struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Duration  *int64  `json:"duration,omitempty"`
	Uploader  *string `json:"uploader,omitempty"`
	ChannelID *string `json:"channel_id,omitempty"`
}

// PlaylistMetadata is the response payload for a playlist. Videos is deduplicated in
// first-seen order and VideoCount always equals len(Videos).
type PlaylistMetadata struct {
	ID         string                 `json:"id"`
	Title      *string                `json:"title,omitempty"`
	Uploader   *string                `json:"uploader,omitempty"`
	ChannelID  *string                `json:"channel_id,omitempty"`
	VideoCount int                    `json:"video_count"`
	Videos     []PlaylistEntrySummary `json:"videos"`
}

// HasVideos reports whether the playlist lookup produced any entries; false marks a
// negative result, same as VideoMetadata.HasStreams.
func (m PlaylistMetadata) HasVideos() bool {
	return len(m.Videos) > 0
}
