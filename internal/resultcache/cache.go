// Package resultcache coordinates page fetches by key.
//
// Each key has at most one request in flight: a second caller for the same key
// attaches to the first caller's call instead of starting another. Resolved
// pages are kept in a bounded LRU so revisiting a page is served without a
// request. Failures are never cached, so a retry always reaches the fetcher.
package resultcache

import (
	"context"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultSize is the number of resolved pages kept when no size is given.
const DefaultSize = 64

// Loader fetches the value for a key. It runs detached from any single
// caller's context because its result may be shared.
type Loader[T any] func(ctx context.Context) (T, error)

// Options configure a Cache.
type Options struct {
	Size   int
	Logger *slog.Logger
}

// Cache maps keys to in-flight or resolved values.
type Cache[T any] struct {
	group    singleflight.Group
	resolved *lru.Cache[string, T]
	base     context.Context
	logger   *slog.Logger
}

// New builds a Cache. base scopes every loader; cancelling it aborts
// outstanding loads.
func New[T any](base context.Context, opts Options) (*Cache[T], error) {
	size := opts.Size
	if size <= 0 {
		size = DefaultSize
	}
	resolved, err := lru.New[string, T](size)
	if err != nil {
		return nil, fmt.Errorf("create page cache: %w", err)
	}
	if base == nil {
		base = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cache[T]{resolved: resolved, base: base, logger: logger}, nil
}

// Future is a pending or resolved value.
type Future[T any] struct {
	ch     <-chan singleflight.Result
	value  T
	err    error
	done   bool
	Cached bool // served from the resolved cache without a request
	Shared bool // attached to a request another caller started
}

// Wait blocks until the value is available or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	if f.done {
		return f.value, f.err
	}
	select {
	case res := <-f.ch:
		f.done = true
		f.Shared = res.Shared
		if res.Err != nil {
			f.err = res.Err
			return f.value, f.err
		}
		f.value = res.Val.(T)
		return f.value, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Request returns the value for key, reusing a resolved entry or an
// in-flight call when one exists and starting load otherwise. The call is
// registered before Request returns, so two near-simultaneous requests for
// the same key always share one load.
//
// With force set, a resolved entry is discarded first. An in-flight call is
// still shared rather than duplicated.
func (c *Cache[T]) Request(key string, force bool, load Loader[T]) *Future[T] {
	if force {
		c.resolved.Remove(key)
	} else if value, ok := c.resolved.Get(key); ok {
		return &Future[T]{value: value, done: true, Cached: true}
	}

	ch := c.group.DoChan(key, func() (any, error) {
		value, err := load(c.base)
		if err != nil {
			c.logger.Warn("page fetch failed", "key", key, "error", err)
			return nil, err
		}
		// Store before the call is forgotten so no gap lets a second load in.
		c.resolved.Add(key, value)
		return value, nil
	})
	return &Future[T]{ch: ch}
}

// Peek returns a resolved value without starting a request.
func (c *Cache[T]) Peek(key string) (T, bool) {
	return c.resolved.Peek(key)
}

// Len returns the number of resolved entries.
func (c *Cache[T]) Len() int {
	return c.resolved.Len()
}
