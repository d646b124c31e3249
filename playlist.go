package yt_dlp_api

// AggregatePlaylistEntries reduces raw playlist entries to deduplicated summaries in
// first-seen order. Entry identity is the "id" field, falling back to the raw "url"
// locator; entries with neither are dropped. The first occurrence of an identity wins,
// even when a later duplicate carries fuller data.
func AggregatePlaylistEntries(entries []RawInfo) []PlaylistEntrySummary {
	seen := make(map[string]struct{}, len(entries))
	videos := make([]PlaylistEntrySummary, 0, len(entries))
	for _, e := range entries {
		id := e.String("id")
		if id == "" {
			id = e.String("url")
		}
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		channelID := e.StringPtr("channel_id")
		if channelID == nil {
			channelID = e.StringPtr("uploader_id")
		}
		videos = append(videos, PlaylistEntrySummary{
			ID:        id,
			Title:     e.String("title"),
			Duration:  e.Int("duration"),
			Uploader:  e.StringPtr("uploader"),
			ChannelID: channelID,
		})
	}
	return videos
}

// BuildPlaylistMetadata assembles the canonical playlist response from a raw extractor
// descriptor. Total over its input, like BuildVideoMetadata.
func BuildPlaylistMetadata(fallbackID string, info RawInfo) PlaylistMetadata {
	id := info.String("id")
	if id == "" {
		id = fallbackID
	}
	videos := AggregatePlaylistEntries(info.Entries("entries"))
	return PlaylistMetadata{
		ID:         id,
		Title:      info.StringPtr("title"),
		Uploader:   info.StringPtr("uploader"),
		ChannelID:  info.StringPtr("channel_id"),
		VideoCount: len(videos),
		Videos:     videos,
	}
}
