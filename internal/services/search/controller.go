// Package search turns raw keystrokes into committed search terms.
//
// Input updates the raw text at once and (re)arms a quiet-interval timer.
// When the interval elapses with no further input the trimmed text becomes
// the committed term, the page resets to 1 and OnCommit is called.
// OnCommit sees states in the order they were made; a state overtaken by
// a newer one before delivery is dropped.
package search

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// DefaultInterval is the quiet interval used when none is configured.
const DefaultInterval = 500 * time.Millisecond

// ErrInvalidPage is returned by SetPage for pages below 1.
var ErrInvalidPage = errors.New("page must be >= 1")

// State is the committed search state.
type State struct {
	Raw  string
	Term string
	Page int
}

// Timer is the part of *time.Timer the controller uses.
type Timer interface {
	Stop() bool
}

// Clock schedules the commit callback.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Controller debounces search input. It is safe for concurrent use.
type Controller struct {
	interval time.Duration
	clock    Clock
	onCommit func(State)
	log      *slog.Logger

	mu      sync.Mutex
	state   State
	timer   Timer
	pending uint64
	seq     uint64
	closed  bool

	// notifyMu orders onCommit calls, notified is the newest seq delivered
	notifyMu sync.Mutex
	notified uint64
}

// Option customizes a Controller
type Option func(*Controller)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(clock Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// New returns a controller on page 1 with an empty term. onCommit may be
// nil. It must not call SetPage or Flush.
func New(interval time.Duration, onCommit func(State), opts ...Option) *Controller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	c := &Controller{
		interval: interval,
		clock:    realClock{},
		onCommit: onCommit,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		state:    State{Page: 1},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Input records text as the raw input and restarts the quiet interval.
func (c *Controller) Input(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.state.Raw = text
	c.stopLocked()

	c.pending++
	id := c.pending
	c.timer = c.clock.AfterFunc(c.interval, func() { c.commit(id) })
}

// SetPage moves to page n without touching the term.
func (c *Controller) SetPage(n int) error {
	if n < 1 {
		return ErrInvalidPage
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.state.Page = n
	st, seq := c.state, c.nextSeqLocked()
	c.mu.Unlock()

	c.notify(seq, st)
	return nil
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Flush commits pending input now, as if the interval had elapsed.
// It reports whether anything was pending.
func (c *Controller) Flush() bool {
	c.mu.Lock()
	if c.closed || c.timer == nil {
		c.mu.Unlock()
		return false
	}
	c.stopLocked()
	st, seq := c.commitLocked(), c.nextSeqLocked()
	c.mu.Unlock()

	c.notify(seq, st)
	return true
}

// Close stops the pending timer. A timer that already fired but has not
// committed yet is suppressed. Close is idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.stopLocked()
}

func (c *Controller) commit(id uint64) {
	c.mu.Lock()
	if c.closed || id != c.pending || c.timer == nil {
		// superseded or torn down
		c.mu.Unlock()
		return
	}
	c.timer = nil
	st, seq := c.commitLocked(), c.nextSeqLocked()
	c.mu.Unlock()

	c.notify(seq, st)
}

func (c *Controller) commitLocked() State {
	c.state.Term = strings.TrimSpace(c.state.Raw)
	c.state.Page = 1
	c.log.Debug("search committed", "term", c.state.Term)
	return c.state
}

func (c *Controller) stopLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) nextSeqLocked() uint64 {
	c.seq++
	return c.seq
}

// notify runs after mu is released, so a SetPage can overtake a timer
// commit on the way here.
func (c *Controller) notify(seq uint64, st State) {
	if c.onCommit == nil {
		return
	}
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	if seq <= c.notified {
		c.log.Debug("superseded search state dropped", "term", st.Term, "page", st.Page)
		return
	}
	c.notified = seq
	c.onCommit(st)
}
