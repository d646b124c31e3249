package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ztube-org/yt-dlp-api"
	"github.com/ztube-org/yt-dlp-api/internal/cache"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"video_cache":    cacheStats(s.cfg.VideoCache.Stats()),
		"playlist_cache": cacheStats(s.cfg.PlaylistCache.Stats()),
	})
}

func cacheStats(stats cache.Stats) gin.H {
	return gin.H{
		"size":        stats.Size,
		"maxsize":     stats.MaxSize,
		"ttl_seconds": stats.TTL.Seconds(),
	}
}

func (s *Server) handleVideo(c *gin.Context) {
	meta, err := s.cfg.VideoCache.GetOrPopulate(c.Request.Context(), c.Param("id"), forceReload(c), s.resolveVideo)
	if err != nil {
		abortMetadataError(c, err, "Video not found or unavailable", "Failed to retrieve video information")
		return
	}
	c.JSON(http.StatusOK, meta)
}

func (s *Server) handlePlaylist(c *gin.Context) {
	meta, err := s.cfg.PlaylistCache.GetOrPopulate(c.Request.Context(), c.Param("id"), forceReload(c), s.resolvePlaylist)
	if err != nil {
		abortMetadataError(c, err, "Playlist not found or unavailable", "Failed to retrieve playlist information")
		return
	}
	c.JSON(http.StatusOK, meta)
}

func (s *Server) resolveVideo(ctx context.Context, id string) (yt_dlp_api.VideoMetadata, error) {
	raw, err := s.cfg.Gateway.Video(ctx, id)
	if err != nil {
		return yt_dlp_api.VideoMetadata{}, err
	}
	meta := yt_dlp_api.BuildVideoMetadata(id, raw)
	annotateProxiedURLs(meta.HLSFormats)
	return meta, nil
}

func (s *Server) resolvePlaylist(ctx context.Context, id string) (yt_dlp_api.PlaylistMetadata, error) {
	raw, err := s.cfg.Gateway.Playlist(ctx, id)
	if err != nil {
		return yt_dlp_api.PlaylistMetadata{}, err
	}
	return yt_dlp_api.BuildPlaylistMetadata(id, raw), nil
}

// annotateProxiedURLs points each HLS variant's manifest fetch back through this service.
// Annotation happens before the value enters the cache, so cached entries stay immutable.
func annotateProxiedURLs(variants []yt_dlp_api.StreamVariant) {
	for i, v := range variants {
		query := url.Values{"url": {v.URL}}
		variants[i].ProxiedURL = "/m3u8_proxy?" + query.Encode()
	}
}

func forceReload(c *gin.Context) bool {
	force, err := strconv.ParseBool(c.Query("force_reload"))
	return err == nil && force
}

func abortMetadataError(c *gin.Context, err error, notFoundDetail, internalDetail string) {
	if errors.Is(err, yt_dlp_api.ErrUnavailable) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": notFoundDetail})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": internalDetail})
}

func (s *Server) handleManifestProxy(c *gin.Context) {
	body, contentType, err := s.cfg.Proxy.RewriteManifest(c.Request.Context(), c.Query("url"))
	if err != nil {
		s.abortProxyError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, body)
}

func (s *Server) handleSegmentProxy(c *gin.Context) {
	body, contentType, length, err := s.cfg.Proxy.OpenSegment(c.Request.Context(), c.Query("url"))
	if err != nil {
		s.abortProxyError(c, err)
		return
	}
	defer body.Close()
	c.DataFromReader(http.StatusOK, length, contentType, body, nil)
}

func (s *Server) abortProxyError(c *gin.Context, err error) {
	var statusErr *yt_dlp_api.UpstreamStatusError
	switch {
	case errors.Is(err, yt_dlp_api.ErrBadInput):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case errors.As(err, &statusErr):
		c.AbortWithStatusJSON(statusErr.StatusCode, gin.H{"detail": err.Error()})
	case errors.Is(err, yt_dlp_api.ErrUpstreamUnreachable):
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"detail": "Failed to reach upstream"})
	default:
		s.log.Errorf("proxy request failed: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Proxy request failed"})
	}
}
