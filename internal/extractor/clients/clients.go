// Package clients registers every built-in extractor client; import it for the side
// effect of populating extractor.DefaultRegistry.
package clients

import (
	_ "github.com/ztube-org/yt-dlp-api/internal/extractor/youtube"
	_ "github.com/ztube-org/yt-dlp-api/internal/extractor/ytdlp"
)
