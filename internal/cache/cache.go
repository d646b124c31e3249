// Package cache provides the keyed TTL result caches that hide extractor latency.
package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Clock returns the current time; injectable for tests.
type Clock func() time.Time

// Resolver produces a fresh value for a key, typically by calling the extractor gateway.
type Resolver[V any] func(ctx context.Context, key string) (V, error)

// Stats describes the cache's occupancy and configuration.
type Stats struct {
	Size    int
	MaxSize int
	TTL     time.Duration
}

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Cache is a size-bounded, TTL-expiring key/value cache with a negative-result policy
// layered on top of a plain LRU store. Entries are immutable snapshots: a refresh stores
// a new entry rather than mutating the old one. Safe for concurrent use; no single-flight
// deduplication is attempted, so concurrent misses may each invoke the resolver.
type Cache[V any] struct {
	store    *lru.Cache[string, entry[V]]
	maxSize  int
	ttl      time.Duration
	now      Clock
	negative func(V) bool
	onEvict  func(key string)
}

// Option configures a Cache.
type Option[V any] func(*Cache[V])

// WithClock replaces the time source.
func WithClock[V any](clock Clock) Option[V] {
	return func(c *Cache[V]) {
		c.now = clock
	}
}

// WithNegative installs the negative-result predicate: values for which it returns true
// are returned to the caller but evicted immediately, so the next lookup resolves again.
func WithNegative[V any](negative func(V) bool) Option[V] {
	return func(c *Cache[V]) {
		c.negative = negative
	}
}

// WithEvictFunc installs a callback invoked whenever an entry leaves the store, whether
// by capacity pressure, expiry, invalidation or the negative-result policy.
func WithEvictFunc[V any](onEvict func(key string)) Option[V] {
	return func(c *Cache[V]) {
		c.onEvict = onEvict
	}
}

// New creates a Cache holding at most maxSize entries, each live for ttl.
func New[V any](maxSize int, ttl time.Duration, opts ...Option[V]) (*Cache[V], error) {
	c := &Cache[V]{
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	store, err := lru.NewWithEvict[string, entry[V]](maxSize, func(key string, _ entry[V]) {
		if c.onEvict != nil {
			c.onEvict(key)
		}
	})
	if err != nil {
		return nil, err
	}
	c.store = store
	return c, nil
}

// GetOrPopulate returns the cached value for key, resolving and storing it on a miss.
// forceRefresh invalidates first and always resolves. Resolution errors are returned
// as-is and never stored. Expired entries are treated as absent; the least-recently-used
// entry is evicted when the size bound would be exceeded.
func (c *Cache[V]) GetOrPopulate(ctx context.Context, key string, forceRefresh bool, resolve Resolver[V]) (V, error) {
	if forceRefresh {
		c.store.Remove(key)
	} else if value, ok := c.lookup(key); ok {
		if c.negative == nil || !c.negative(value) {
			return value, nil
		}
		// A retrieved negative result must not be sticky either.
		c.store.Remove(key)
	}
	value, err := resolve(ctx, key)
	if err != nil {
		var zero V
		return zero, err
	}
	c.store.Add(key, entry[V]{value: value, storedAt: c.now()})
	if c.negative != nil && c.negative(value) {
		c.store.Remove(key)
	}
	return value, nil
}

// Invalidate removes the entry for key, if any.
func (c *Cache[V]) Invalidate(key string) {
	c.store.Remove(key)
}

// Stats reports current occupancy alongside the configured bounds.
func (c *Cache[V]) Stats() Stats {
	return Stats{
		Size:    c.store.Len(),
		MaxSize: c.maxSize,
		TTL:     c.ttl,
	}
}

func (c *Cache[V]) lookup(key string) (V, bool) {
	e, ok := c.store.Get(key)
	if ok && c.now().Sub(e.storedAt) <= c.ttl {
		return e.value, true
	}
	if ok {
		c.store.Remove(key)
	}
	var zero V
	return zero, false
}
