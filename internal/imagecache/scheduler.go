package imagecache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raphi011/vsort/internal/log"
)

// DefaultWorkers is the number of concurrent fetches when none is configured.
const DefaultWorkers = 5

// Completion is a finished fetch on its way from a worker to the consuming goroutine.
// Pass it to [Scheduler.Complete]; nothing else should inspect it.
type Completion struct {
	key     Key
	image   *Image
	err     error
	elapsed time.Duration
}

// Key returns the key the completion belongs to.
func (c Completion) Key() Key { return c.key }

// request is a key in flight, from acceptance until its result is delivered.
type request struct {
	key  Key
	load LoadFunc
	seq  uint64
}

// Scheduler deduplicates fetches by key and runs at most Workers loaders at once.
//
// Request and Complete must be called from the same goroutine. Workers communicate
// with it only through the Deliveries channel.
type Scheduler struct {
	ctx     context.Context
	log     *log.Logger
	store   *Store
	waiters *Waiters
	workers int

	queue   []*request       // FIFO of accepted, not yet started requests
	pending map[Key]*request // queued or running, at most one per key
	active  int              // running loaders
	seq     uint64

	// Buffered to the worker count: a slot is only freed by Complete, so at most
	// `workers` completions are ever outstanding and workers never block on send.
	deliveries chan Completion

	started  int
	failures int
}

// NewScheduler creates a scheduler that stores results in store and notifies the
// sinks registered in waiters. ctx is handed to every loader and carries the logger.
// workers < 1 means DefaultWorkers.
func NewScheduler(ctx context.Context, store *Store, waiters *Waiters, workers int) *Scheduler {
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &Scheduler{
		ctx:        ctx,
		log:        log.FromContext(ctx),
		store:      store,
		waiters:    waiters,
		workers:    workers,
		pending:    make(map[Key]*request),
		deliveries: make(chan Completion, workers),
	}
}

// Request asks for key. A cached image is delivered to sink before Request returns.
// Otherwise sink waits for the key's single in-flight fetch, which is started with
// load if none exists yet. A nil sink prefetches without waiting.
func (s *Scheduler) Request(key Key, load LoadFunc, sink Sink) {
	if img, ok := s.store.Get(key); ok {
		if sink != nil {
			sink.Deliver(Result{Key: key, Image: img})
		}
		return
	}

	s.waiters.Add(key, sink)
	if _, ok := s.pending[key]; ok {
		s.log.Debug("fetch joined", "key", key)
		return
	}

	s.seq++
	req := &request{key: key, load: load, seq: s.seq}
	s.pending[key] = req
	s.queue = append(s.queue, req)
	s.log.Debug("fetch queued", "key", key, "seq", req.seq, "queued", len(s.queue))

	s.dispatch()
}

// Deliveries is the channel workers report on. The consuming goroutine receives
// from it and passes each value to Complete.
func (s *Scheduler) Deliveries() <-chan Completion {
	return s.deliveries
}

// Complete applies a finished fetch: the image is stored (on success), every waiter
// receives the result, the key stops being pending and the freed slot picks up the
// next queued request. Unknown completions are ignored.
func (s *Scheduler) Complete(c Completion) {
	if _, ok := s.pending[c.key]; !ok {
		return
	}
	delete(s.pending, c.key)
	s.active--

	sinks := s.waiters.Waiters(c.key)
	s.waiters.Clear(c.key)

	res := Result{Key: c.key}
	if c.err != nil {
		fe := classify(c.key, c.err)
		res.Err = fe
		s.failures++
		s.log.Warn("fetch failed", "key", c.key, "kind", fe.Kind, "err", fe.Err, "waiters", len(sinks))
	} else {
		s.store.Put(c.key, c.image)
		res.Image = c.image
	}

	// Sinks may call Request again (e.g. retry); the key is no longer pending here.
	for _, sink := range sinks {
		sink.Deliver(res)
	}

	s.dispatch()
}

// Drain runs the consumer side until no request is pending or ctx is done.
// For callers that have no event loop of their own; a UI feeds Complete instead.
func (s *Scheduler) Drain(ctx context.Context) error {
	for !s.Idle() {
		select {
		case c := <-s.deliveries:
			s.Complete(c)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Idle reports whether no request is queued or running.
func (s *Scheduler) Idle() bool {
	return len(s.pending) == 0
}

// Pending returns the number of keys queued or running.
func (s *Scheduler) Pending() int { return len(s.pending) }

// Active returns the number of loaders currently running.
func (s *Scheduler) Active() int { return s.active }

// Queued returns the number of accepted requests waiting for a slot.
func (s *Scheduler) Queued() int { return len(s.queue) }

// Workers returns the slot count.
func (s *Scheduler) Workers() int { return s.workers }

// Started returns how many loaders have been started in total.
func (s *Scheduler) Started() int { return s.started }

// Failures returns how many fetches have failed in total.
func (s *Scheduler) Failures() int { return s.failures }

// dispatch starts queued requests, earliest first, while slots are free.
func (s *Scheduler) dispatch() {
	for s.active < s.workers && len(s.queue) > 0 {
		req := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]

		s.active++
		s.started++
		go s.run(req)
	}
}

// run executes one loader on a worker goroutine.
func (s *Scheduler) run(req *request) {
	done := s.log.Timing("fetch", "key", req.key, "seq", req.seq)
	start := time.Now()

	img, err := s.load(req)
	if err == nil && img == nil {
		err = NewFetchError(ErrDecode, req.key, errors.New("loader returned no image"))
	}

	elapsed := time.Since(start)
	done(elapsed)
	s.deliveries <- Completion{key: req.key, image: img, err: err, elapsed: elapsed}
}

// load calls the request's loader. A panic becomes a decode failure so the slot
// is still freed and the waiters still hear back.
func (s *Scheduler) load(req *request) (img *Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = NewFetchError(ErrDecode, req.key, fmt.Errorf("loader panic: %v", r))
		}
	}()
	return req.load(s.ctx, req.key)
}
