// Package notes keeps the paginated, searchable note list in sync with the
// NoteHub API.
//
// A Coordinator owns a cache of pages indexed by QueryKey. It issues at
// most one list call per key at a time, shows the previously displayed page
// while a new key is loading, ignores completions for keys that are no
// longer current, and lets mutations mark every page stale with
// Invalidate. State changes are broadcast through a Hub so a view can
// re-render.
package notes

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"notehub/internal/services/hub"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"
)

const (
	defaultFreshFor   = 30 * time.Second
	defaultMaxEntries = 64
	defaultOutboxSize = 64
)

// Coordinator is the query cache shared by the list view and the create
// form. It is safe for concurrent use.
type Coordinator struct {
	lister Lister
	log    *slog.Logger
	hub    *hub.Hub[Event]
	m      *metrics
	group  singleflight.Group

	freshFor time.Duration
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	cache      *cache
	current    QueryKey
	hasCurrent bool
	displayed  Result
	hasShown   bool
	gen        uint64
	seq        uint64
	closed     bool
}

type options struct {
	freshFor   time.Duration
	maxEntries int
	outbox     int
	reg        prometheus.Registerer
	now        func() time.Time
}

// Option customizes a Coordinator
type Option func(*options)

// WithFreshFor sets how long a fetched page is served without refetching.
// Zero means every access refetches.
func WithFreshFor(d time.Duration) Option {
	return func(o *options) { o.freshFor = d }
}

// WithMaxEntries bounds the number of cached pages.
func WithMaxEntries(n int) Option {
	return func(o *options) { o.maxEntries = n }
}

// WithOutboxSize sets the per-subscriber event buffer.
func WithOutboxSize(n int) Option {
	return func(o *options) { o.outbox = n }
}

// WithRegisterer registers the coordinator metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.reg = reg }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewCoordinator creates a coordinator fetching through lister. Call Close
// when the view goes away.
func NewCoordinator(lister Lister, log *slog.Logger, opts ...Option) *Coordinator {
	o := options{
		freshFor:   defaultFreshFor,
		maxEntries: defaultMaxEntries,
		outbox:     defaultOutboxSize,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxEntries <= 0 {
		o.maxEntries = defaultMaxEntries
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		lister:   lister,
		log:      log,
		hub:      hub.New[Event](o.outbox, log),
		m:        newMetrics(o.reg),
		freshFor: o.freshFor,
		now:      o.now,
		ctx:      ctx,
		cancel:   cancel,
		cache:    newCache(o.maxEntries),
	}
}

// Subscribe registers for state change events.
func (c *Coordinator) Subscribe() (*Subscriber, func()) {
	return c.hub.Subscribe()
}

// Query makes key the current key and returns what to show for it. A fresh
// entry is returned as is; otherwise one fetch is started (or joined) and
// the snapshot carries the previously displayed page as placeholder.
// Query never blocks on the network.
func (c *Coordinator) Query(key QueryKey) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Snapshot{Key: key, Status: StatusFailed, Err: ErrClosed}
	}

	sameKey := c.hasCurrent && c.current == key
	c.current = key
	c.hasCurrent = true

	e := c.cache.getOrCreate(key, key)
	switch {
	case c.freshLocked(e):
		c.m.hits.Inc()
	case e.status == StatusFailed && sameKey && e.fetchGen == c.gen:
		// no automatic retry; Retry or a key change refetches
	default:
		c.ensureFetchLocked(e)
	}
	return c.snapshotLocked(e)
}

// Snapshot returns the state of the current key without side effects.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasCurrent {
		return Snapshot{Status: StatusEmpty}
	}
	e := c.cache.get(c.current)
	if e == nil {
		return Snapshot{Key: c.current, Status: StatusEmpty}
	}
	return c.snapshotLocked(e)
}

// Fetch returns the page for key, waiting for the network when needed.
// Concurrent callers for the same key share one list call and its outcome.
// Fetch does not change the current key.
func (c *Coordinator) Fetch(ctx context.Context, key QueryKey) (Result, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Result{}, ErrClosed
	}

	pinned := key
	if c.hasCurrent {
		pinned = c.current
	}
	e := c.cache.getOrCreate(key, pinned)
	if c.freshLocked(e) {
		c.m.hits.Inc()
		res := e.result
		c.mu.Unlock()
		return res, nil
	}
	c.ensureFetchLocked(e)
	ch := c.group.DoChan(e.flight, e.flightFn)
	c.mu.Unlock()

	select {
	case r := <-ch:
		if r.Err != nil {
			return Result{}, r.Err
		}
		return r.Val.(Result), nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Retry refetches the current key whatever its state.
func (c *Coordinator) Retry() (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Snapshot{}, ErrClosed
	}
	if !c.hasCurrent {
		return Snapshot{}, ErrNoCurrentKey
	}
	e := c.cache.getOrCreate(c.current, c.current)
	c.ensureFetchLocked(e)
	return c.snapshotLocked(e), nil
}

// Invalidate marks every cached page stale and refetches the current key.
// It is idempotent and safe whatever fetches are outstanding: a fetch
// issued before the call can no longer mark its page fresh.
func (c *Coordinator) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.gen++
	c.cache.each(func(e *entry) { e.stale = true })
	c.m.invalidations.Inc()
	c.log.Debug("notes cache invalidated", "family", Family, "generation", c.gen, "entries", c.cache.len())

	if c.hasCurrent {
		c.hub.Broadcast(Event{Type: EventInvalidated, Key: c.current})
		c.ensureFetchLocked(c.cache.getOrCreate(c.current, c.current))
	}
}

// Close cancels outstanding fetches and closes every subscriber. Fetches
// that complete afterwards are ignored.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.hub.Close()
}

// HubStats exposes the subscriber count and dropped events.
func (c *Coordinator) HubStats() (subscribers int, dropped uint64) {
	return c.hub.Stats()
}

func (c *Coordinator) freshLocked(e *entry) bool {
	if !e.hasData || e.stale || e.status != StatusFresh {
		return false
	}
	return c.now().Sub(e.fetchedAt) < c.freshFor
}

// ensureFetchLocked starts a fetch for e unless one from the current
// generation is already outstanding, in which case the caller joins it.
func (c *Coordinator) ensureFetchLocked(e *entry) {
	if e.flight != "" && e.fetchGen == c.gen {
		c.m.joins.Inc()
		return
	}

	c.seq++
	key, gen := e.key, c.gen
	flight := fmt.Sprintf("%s#%d", key, c.seq)

	e.flight = flight
	e.fetchGen = gen
	e.status = StatusFetching
	e.flightFn = func() (any, error) {
		resp, err := c.lister.List(c.ctx, key.Params())
		var res Result
		if err == nil {
			res = Result{Notes: resp.Notes, TotalPages: resp.TotalPages}
		}
		c.complete(key, flight, gen, res, err)
		return res, err
	}

	if c.log.Enabled(c.ctx, slog.LevelDebug) {
		c.log.Debug("fetching notes", "key", key.String(), "generation", gen)
	}

	// The channel is buffered, the result is applied by complete.
	c.group.DoChan(flight, e.flightFn)
	c.hub.Broadcast(Event{Type: EventFetching, Key: key})
}

// complete applies a finished fetch. It runs before the singleflight call
// returns, so joiners that saw e.flight always join this same call.
func (c *Coordinator) complete(key QueryKey, flight string, gen uint64, res Result, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	e := c.cache.get(key)
	if e == nil || e.flight != flight {
		// superseded by a newer fetch for the same key
		c.m.fetches.WithLabelValues("superseded").Inc()
		return
	}
	e.flight = ""
	e.flightFn = nil

	if c.hasCurrent && c.current != key {
		c.m.fetches.WithLabelValues("discarded").Inc()
		if e.hasData {
			e.status = StatusFresh
		} else {
			e.status = StatusEmpty
		}
		e.stale = true
		return
	}

	if err != nil {
		e.status = StatusFailed
		e.err = err
		c.m.fetches.WithLabelValues("error").Inc()
		c.log.Warn("failed to fetch notes", "key", key.String(), "error", err)
		c.hub.Broadcast(Event{Type: EventFailed, Key: key})
		return
	}

	e.status = StatusFresh
	e.result = res
	e.hasData = true
	e.err = nil
	e.fetchedAt = c.now()
	e.stale = gen != c.gen
	c.displayed = res
	c.hasShown = true
	c.m.fetches.WithLabelValues("ok").Inc()
	c.hub.Broadcast(Event{Type: EventFetched, Key: key})
}

func (c *Coordinator) snapshotLocked(e *entry) Snapshot {
	s := Snapshot{
		Key:    e.key,
		Status: e.status,
		Err:    e.err,
		Stale:  !c.freshLocked(e),
	}
	if e.status != StatusFailed {
		s.Err = nil
	}

	switch {
	case e.hasData:
		s.Result = e.result
		s.HasData = true
		if c.hasCurrent && c.current == e.key {
			c.displayed = e.result
			c.hasShown = true
		}
	case e.status == StatusFetching && c.hasShown:
		s.Result = c.displayed
		s.HasData = true
		s.Placeholder = true
	}
	return s
}
