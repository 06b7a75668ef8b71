package imagecache

import (
	"context"
	"time"
)

// Fetcher turns a key into a decoded image. Implementations must be safe for
// concurrent use by several workers.
type Fetcher interface {
	Fetch(ctx context.Context, key Key) (*Image, error)
}

// Engine bundles the store, the waiter registry and the scheduler of one session.
// Build it once and pass it to every view.
type Engine struct {
	*Scheduler
	Store   *Store
	Waiters *Waiters

	fetcher        Fetcher
	defaultTimeout time.Duration
}

// NewEngine creates an engine whose loaders call fetcher. defaultTimeout bounds
// requests made through RequestImage; zero means no timeout.
func NewEngine(ctx context.Context, fetcher Fetcher, workers int, defaultTimeout time.Duration) *Engine {
	store := NewStore()
	waiters := NewWaiters()
	return &Engine{
		Scheduler:      NewScheduler(ctx, store, waiters, workers),
		Store:          store,
		Waiters:        waiters,
		fetcher:        fetcher,
		defaultTimeout: defaultTimeout,
	}
}

// RequestImage requests locator scaled to fit width x height using the default timeout.
func (e *Engine) RequestImage(locator string, width, height int, sink Sink) {
	e.RequestImageTimeout(locator, width, height, e.defaultTimeout, sink)
}

// RequestImageTimeout is RequestImage with a per-call loader timeout. The timeout
// belongs to the fetch that ends up running; a request that joins an in-flight
// fetch inherits that fetch's timeout.
// An empty locator fails immediately with ErrSourceMissing.
func (e *Engine) RequestImageTimeout(locator string, width, height int, timeout time.Duration, sink Sink) {
	key := NewKey(locator, width, height)
	if locator == "" {
		if sink != nil {
			sink.Deliver(Result{Key: key, Err: NewFetchError(ErrSourceMissing, key, nil)})
		}
		return
	}
	e.Request(key, e.loader(timeout), sink)
}

// Cached returns the stored image for locator at width x height, if any.
func (e *Engine) Cached(locator string, width, height int) (*Image, bool) {
	return e.Store.Get(NewKey(locator, width, height))
}

func (e *Engine) loader(timeout time.Duration) LoadFunc {
	return func(ctx context.Context, key Key) (*Image, error) {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return e.fetcher.Fetch(ctx, key)
	}
}
