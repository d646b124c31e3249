package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ztube-org/yt-dlp-api"
	"github.com/ztube-org/yt-dlp-api/async"
	"github.com/ztube-org/yt-dlp-api/internal/api"
	"github.com/ztube-org/yt-dlp-api/internal/cache"
	"github.com/ztube-org/yt-dlp-api/internal/extractor"
	_ "github.com/ztube-org/yt-dlp-api/internal/extractor/clients"
	"github.com/ztube-org/yt-dlp-api/internal/proxy"
)

func main() {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logger, err := config.Build()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()
	zap.RedirectStdLog(logger)
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := &cli.App{
		Name:  "yt-dlp-api",
		Usage: "serve video/playlist metadata and proxy HLS manifests and segments",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "listen",
				Value:   ":8000",
				Usage:   "listen on `ADDR`",
				EnvVars: []string{"YT_DLP_API_LISTEN"},
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "shared secret for the metadata endpoints; empty disables the gate",
				EnvVars: []string{"YT_DLP_API_KEY"},
			},
			&cli.StringFlag{
				Name:  "extractor",
				Value: "yt-dlp",
				Usage: "extractor client `NAME`",
			},
			&cli.StringFlag{
				Name:  "yt-dlp-path",
				Value: "yt-dlp",
				Usage: "`PATH` to the yt-dlp executable",
			},
			&cli.Int64Flag{
				Name:  "extract-workers",
				Value: 4,
				Usage: "maximum concurrent extractions",
			},
			&cli.IntFlag{
				Name:  "video-cache-size",
				Value: 1024,
			},
			&cli.DurationFlag{
				Name:  "video-cache-ttl",
				Value: time.Hour,
			},
			&cli.IntFlag{
				Name:  "playlist-cache-size",
				Value: 256,
			},
			&cli.DurationFlag{
				Name:  "playlist-cache-ttl",
				Value: 30 * time.Minute,
			},
			&cli.StringFlag{
				Name:  "segment-host-suffix",
				Value: proxy.DefaultSegmentHostSuffix,
				Usage: "upstream host `SUFFIX` the segment proxy will relay for",
			},
		},
		Action:          run,
		HideHelpCommand: true,
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		logger.Fatal(err.Error())
	}
}

func run(c *cli.Context) error {
	logger := zap.S()
	if err := validate(c); err != nil {
		return err
	}

	client, err := extractor.DefaultRegistry.New(c.String("extractor"), extractor.Config{
		YTDLPPath: c.String("yt-dlp-path"),
	})
	if err != nil {
		return fmt.Errorf("%w: %q (have: %s)", err, c.String("extractor"),
			strings.Join(extractor.DefaultRegistry.List(), ", "))
	}
	gateway := extractor.NewGateway(client, c.Int64("extract-workers"))

	videoCache, err := cache.New[yt_dlp_api.VideoMetadata](
		c.Int("video-cache-size"), c.Duration("video-cache-ttl"),
		cache.WithNegative[yt_dlp_api.VideoMetadata](func(m yt_dlp_api.VideoMetadata) bool {
			return !m.HasStreams()
		}),
		cache.WithEvictFunc[yt_dlp_api.VideoMetadata](func(key string) {
			logger.Debugf("video cache evicted %q", key)
		}),
	)
	if err != nil {
		return err
	}
	playlistCache, err := cache.New[yt_dlp_api.PlaylistMetadata](
		c.Int("playlist-cache-size"), c.Duration("playlist-cache-ttl"),
		cache.WithNegative[yt_dlp_api.PlaylistMetadata](func(m yt_dlp_api.PlaylistMetadata) bool {
			return !m.HasVideos()
		}),
		cache.WithEvictFunc[yt_dlp_api.PlaylistMetadata](func(key string) {
			logger.Debugf("playlist cache evicted %q", key)
		}),
	)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	server := api.New(api.Config{
		APIKey:        c.String("api-key"),
		Gateway:       gateway,
		VideoCache:    videoCache,
		PlaylistCache: playlistCache,
		Proxy: proxy.New(proxy.Config{
			SegmentHostSuffix: c.String("segment-host-suffix"),
		}),
	})

	httpServer := &http.Server{
		Addr:    c.String("listen"),
		Handler: server.Handler(),
	}
	if c.String("api-key") == "" {
		logger.Warn("no api-key configured, metadata endpoints are unauthenticated")
	}
	logger.Infof("listening on %s (extractor: %s)", c.String("listen"), c.String("extractor"))

	result := async.Run(func() error {
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case err := <-result:
		return err
	case <-c.Context.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-result
	}
}

func validate(c *cli.Context) error {
	var result error
	if c.Int("video-cache-size") <= 0 {
		result = multierror.Append(result, errors.New("video-cache-size must be positive"))
	}
	if c.Duration("video-cache-ttl") <= 0 {
		result = multierror.Append(result, errors.New("video-cache-ttl must be positive"))
	}
	if c.Int("playlist-cache-size") <= 0 {
		result = multierror.Append(result, errors.New("playlist-cache-size must be positive"))
	}
	if c.Duration("playlist-cache-ttl") <= 0 {
		result = multierror.Append(result, errors.New("playlist-cache-ttl must be positive"))
	}
	if c.Int64("extract-workers") <= 0 {
		result = multierror.Append(result, errors.New("extract-workers must be positive"))
	}
	return result
}
