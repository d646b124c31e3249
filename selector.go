package yt_dlp_api

import "strings"

// ManifestSuffix is the file suffix identifying an HLS playlist URL.
const ManifestSuffix = ".m3u8"

const (
	progressiveExt = "mp4"
	audioFormatID  = "140"
	audioExt       = "m4a"
)

// Progressive format ids in priority order, highest quality first. Upstream ordering is
// not reliable across requests, so responses always follow this list.
var progressiveFormatIDs = []string{"299", "137", "298", "136", "135", "134"}

// HLS variant ids eligible for proxying.
var hlsFormatIDs = map[string]struct{}{
	"91": {}, "92": {}, "93": {}, "94": {}, "95": {}, "96": {},
	"300": {}, "301": {},
}

// SelectVideoFormats picks the progressive variants from a raw format list. Only
// descriptors with the progressive container and a non-empty URL qualify; when an id
// appears more than once the last-scanned descriptor wins. Output order is the fixed
// priority list, skipping ids that are absent.
func SelectVideoFormats(formats []RawInfo) []StreamVariant {
	byID := make(map[string]RawInfo)
	for _, f := range formats {
		id := f.String("format_id")
		if id == "" || f.String("ext") != progressiveExt || f.String("url") == "" {
			continue
		}
		byID[id] = f
	}
	var selected []StreamVariant
	for _, id := range progressiveFormatIDs {
		if f, ok := byID[id]; ok {
			selected = append(selected, newStreamVariant(f))
		}
	}
	return selected
}

// SelectHLSFormats picks the HLS variants from a raw format list, preserving upstream
// order. A descriptor qualifies only when its id is in the allowlist AND its URL ends in
// the manifest suffix; both checks stay required. Duplicate ids pass through unchanged.
func SelectHLSFormats(formats []RawInfo) []StreamVariant {
	var selected []StreamVariant
	for _, f := range formats {
		if _, ok := hlsFormatIDs[f.String("format_id")]; !ok {
			continue
		}
		url := f.String("url")
		if url == "" || !strings.HasSuffix(url, ManifestSuffix) {
			continue
		}
		selected = append(selected, newStreamVariant(f))
	}
	return selected
}

// SelectAudioFormat returns the first descriptor (in upstream order) matching the target
// audio id and container with a usable URL, or nil when there is none.
func SelectAudioFormat(formats []RawInfo) *StreamVariant {
	for _, f := range formats {
		if f.String("format_id") != audioFormatID || f.String("ext") != audioExt {
			continue
		}
		if f.String("url") == "" {
			continue
		}
		v := newStreamVariant(f)
		return &v
	}
	return nil
}

// BuildVideoMetadata assembles the canonical video response from a raw extractor
// descriptor. It is total over its input: missing fields degrade to absent, never fail.
func BuildVideoMetadata(fallbackID string, info RawInfo) VideoMetadata {
	id := info.String("id")
	if id == "" {
		id = fallbackID
	}
	formats := info.Entries("formats")
	return VideoMetadata{
		ID:           id,
		Title:        info.String("title"),
		Duration:     info.Int("duration"),
		Uploader:     info.StringPtr("uploader"),
		ChannelID:    info.StringPtr("channel_id"),
		VideoFormats: SelectVideoFormats(formats),
		HLSFormats:   SelectHLSFormats(formats),
		AudioFormat:  SelectAudioFormat(formats),
	}
}

func newStreamVariant(f RawInfo) StreamVariant {
	return StreamVariant{
		FormatID:       f.String("format_id"),
		Ext:            f.String("ext"),
		URL:            f.String("url"),
		Width:          f.Int("width"),
		Height:         f.Int("height"),
		FPS:            f.Float("fps"),
		Bitrate:        f.Float("tbr"),
		Filesize:       f.Int("filesize"),
		FilesizeApprox: f.Int("filesize_approx"),
	}
}
