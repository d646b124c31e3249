package extractor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	assert_ "github.com/stretchr/testify/assert"

	"github.com/ztube-org/yt-dlp-api"
)

type stubClient struct {
	video    func(ctx context.Context, id string) (yt_dlp_api.RawInfo, error)
	playlist func(ctx context.Context, id string) (yt_dlp_api.RawInfo, error)
}

func (s *stubClient) Video(ctx context.Context, id string) (yt_dlp_api.RawInfo, error) {
	return s.video(ctx, id)
}

func (s *stubClient) Playlist(ctx context.Context, id string) (yt_dlp_api.RawInfo, error) {
	return s.playlist(ctx, id)
}

func TestGatewayPassesThroughResults(t *testing.T) {
	assert := assert_.New(t)
	g := NewGateway(&stubClient{
		video: func(_ context.Context, id string) (yt_dlp_api.RawInfo, error) {
			return yt_dlp_api.RawInfo{"id": id}, nil
		},
		playlist: func(_ context.Context, id string) (yt_dlp_api.RawInfo, error) {
			return nil, fmt.Errorf("gone: %w", yt_dlp_api.ErrUnavailable)
		},
	}, 2)

	info, err := g.Video(context.Background(), "abc")
	assert.NoError(err)
	assert.Equal("abc", info.String("id"))

	_, err = g.Playlist(context.Background(), "pl")
	assert.ErrorIs(err, yt_dlp_api.ErrUnavailable)
}

func TestGatewayBoundsConcurrency(t *testing.T) {
	assert := assert_.New(t)
	const workers = 2

	var active, peak int64
	release := make(chan struct{})
	g := NewGateway(&stubClient{
		video: func(context.Context, string) (yt_dlp_api.RawInfo, error) {
			n := atomic.AddInt64(&active, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			<-release
			atomic.AddInt64(&active, -1)
			return yt_dlp_api.RawInfo{}, nil
		},
	}, workers)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = g.Video(context.Background(), fmt.Sprintf("v%d", i))
		}(i)
	}
	close(release)
	wg.Wait()

	assert.LessOrEqual(atomic.LoadInt64(&peak), int64(workers))
}

func TestGatewayAcquireHonoursContext(t *testing.T) {
	assert := assert_.New(t)
	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)
	g := NewGateway(&stubClient{
		video: func(context.Context, string) (yt_dlp_api.RawInfo, error) {
			close(started)
			<-release
			return yt_dlp_api.RawInfo{}, nil
		},
	}, 1)

	// Occupy the single worker, and wait until it actually holds the slot: a canceled
	// acquire is only guaranteed to fail once it has to queue.
	go func() { _, _ = g.Video(context.Background(), "busy") }()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Video(ctx, "queued")
	assert.ErrorIs(err, context.Canceled)
}

func TestRegistry(t *testing.T) {
	assert := assert_.New(t)
	var r Registry

	assert.ErrorIs(r.Register("", nil), ErrInvalidClient)
	assert.NoError(r.Register("stub", func(Config) (Client, error) {
		return &stubClient{}, nil
	}))
	assert.ErrorIs(r.Register("stub", func(Config) (Client, error) {
		return &stubClient{}, nil
	}), ErrDuplicateClient)
	assert.Equal([]string{"stub"}, r.List())

	client, err := r.New("stub", Config{})
	assert.NoError(err)
	assert.NotNil(client)

	_, err = r.New("nope", Config{})
	assert.ErrorIs(err, ErrUnknownClient)
}
