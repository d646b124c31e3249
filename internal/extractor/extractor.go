// Package extractor wraps the pluggable metadata extraction clients behind a gateway
// that bounds their concurrency and classifies their failures.
package extractor

import (
	"context"
	"errors"
	"sort"

	"github.com/ztube-org/yt-dlp-api"
)

var (
	ErrDuplicateClient = errors.New("duplicate extractor client name")
	ErrInvalidClient   = errors.New("invalid extractor client")
	ErrUnknownClient   = errors.New("unknown extractor client")
)

// A Client resolves a video or playlist identifier into a raw upstream descriptor.
// Calls are network-bound and may block for a long time; the Gateway keeps them off the
// request-handling path. Implementations report a missing/restricted resource by
// wrapping yt_dlp_api.ErrUnavailable.
type Client interface {
	Video(ctx context.Context, id string) (yt_dlp_api.RawInfo, error)
	Playlist(ctx context.Context, id string) (yt_dlp_api.RawInfo, error)
}

// Config carries the settings a Factory may need.
type Config struct {
	// YTDLPPath is the yt-dlp executable used by the subprocess client.
	YTDLPPath string
}

// Factory constructs a Client from configuration.
type Factory func(Config) (Client, error)

// A Registry is a collection of named Client factories, selected by operator
// configuration at startup.
type Registry struct {
	factories map[string]Factory
}

// Register adds a named Factory. The name must be non-empty and unique.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" || f == nil {
		return ErrInvalidClient
	}
	if r.factories == nil {
		r.factories = make(map[string]Factory)
	}
	if _, ok := r.factories[name]; ok {
		return ErrDuplicateClient
	}
	r.factories[name] = f
	return nil
}

// MustRegister wraps Register but panics on error; for use from init().
func (r *Registry) MustRegister(name string, f Factory) {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
}

// List returns the registered client names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New constructs the named Client, or returns ErrUnknownClient.
func (r *Registry) New(name string, cfg Config) (Client, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, ErrUnknownClient
	}
	return f(cfg)
}

var DefaultRegistry Registry
