// Package api exposes the HTTP surface: metadata endpoints behind the access gate,
// ungated manifest/segment proxy endpoints, and the health report.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ztube-org/yt-dlp-api"
	"github.com/ztube-org/yt-dlp-api/internal/cache"
	"github.com/ztube-org/yt-dlp-api/internal/extractor"
	"github.com/ztube-org/yt-dlp-api/internal/proxy"
)

// Config wires the server's collaborators. All fields except APIKey are required.
type Config struct {
	// APIKey is the shared secret for the metadata endpoints; empty disables the gate.
	APIKey        string
	Gateway       *extractor.Gateway
	VideoCache    *cache.Cache[yt_dlp_api.VideoMetadata]
	PlaylistCache *cache.Cache[yt_dlp_api.PlaylistMetadata]
	Proxy         *proxy.Proxy
}

type Server struct {
	cfg    Config
	router *gin.Engine
	log    *zap.SugaredLogger
}

func New(cfg Config) *Server {
	s := &Server{
		cfg: cfg,
		log: zap.S().Named("api"),
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.log))

	router.GET("/health", s.handleHealth)

	v1 := router.Group("/v1", accessGate(cfg.APIKey))
	v1.GET("/video/:id", s.handleVideo)
	v1.GET("/playlists/:id", s.handlePlaylist)

	// The proxy endpoints are ungated; the segment host allowlist is their boundary.
	// crossOrigin runs first so even validation errors carry the CORS headers.
	router.GET("/m3u8_proxy", crossOrigin, s.handleManifestProxy)
	router.OPTIONS("/m3u8_proxy", crossOrigin)
	router.GET("/seg_proxy", crossOrigin, s.handleSegmentProxy)
	router.OPTIONS("/seg_proxy", crossOrigin)

	s.router = router
	return s
}

// Handler returns the server's http.Handler for mounting or testing.
func (s *Server) Handler() http.Handler {
	return s.router
}
