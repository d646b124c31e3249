package extractor

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/ztube-org/yt-dlp-api"
	"github.com/ztube-org/yt-dlp-api/async"
)

// Gateway runs Client calls on a bounded pool of background workers, so a slow upstream
// extraction cannot starve unrelated requests. It performs no retries: failures surface
// to the caller, which decides what (if anything) to do about them.
type Gateway struct {
	client Client
	sem    *semaphore.Weighted
	log    *zap.SugaredLogger
}

// NewGateway wraps client, allowing at most workers concurrent extractions.
func NewGateway(client Client, workers int64) *Gateway {
	return &Gateway{
		client: client,
		sem:    semaphore.NewWeighted(workers),
		log:    zap.S().Named("extractor"),
	}
}

// Video resolves a video id into a raw descriptor.
func (g *Gateway) Video(ctx context.Context, id string) (yt_dlp_api.RawInfo, error) {
	return g.dispatch(ctx, "video", id, g.client.Video)
}

// Playlist resolves a playlist id into a raw descriptor.
func (g *Gateway) Playlist(ctx context.Context, id string) (yt_dlp_api.RawInfo, error) {
	return g.dispatch(ctx, "playlist", id, g.client.Playlist)
}

func (g *Gateway) dispatch(ctx context.Context, kind, id string, call func(context.Context, string) (yt_dlp_api.RawInfo, error)) (yt_dlp_api.RawInfo, error) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	g.log.Debugf("extracting %s %q", kind, id)
	// The extraction runs with a detached context: a caller disconnect must not abort an
	// in-flight call, whose result is still useful for populating the cache.
	result := <-async.RunResult(func() (yt_dlp_api.RawInfo, error) {
		defer g.sem.Release(1)
		return call(context.Background(), id)
	})
	if result.Err != nil {
		if errors.Is(result.Err, yt_dlp_api.ErrUnavailable) {
			g.log.Infof("%s %q unavailable: %v", kind, id, result.Err)
		} else {
			g.log.Errorf("unexpected failure extracting %s %q: %v", kind, id, result.Err)
		}
		return nil, result.Err
	}
	return result.Value, nil
}
