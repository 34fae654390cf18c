// Package memory implements the memory-match game that gates the portfolio:
// deck generation, the flip/match state machine and the gate around it.
package memory

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// Status is the lifecycle stage of a game.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusActive     Status = "active"
	StatusWon        Status = "won"
)

const (
	DefaultMatchDelay    = 500 * time.Millisecond
	DefaultMismatchDelay = 1000 * time.Millisecond
)

var (
	ErrAlreadyStarted = errors.New("game already started")
	ErrNotStarted     = errors.New("game not started")
	ErrClosed         = errors.New("game closed")
	ErrInvalidDelay   = errors.New("delay must not be negative")
)

// Config parameterizes a game. Zero fields take the reference values.
type Config struct {
	PairCount     int
	Catalog       []Symbol
	MatchDelay    time.Duration
	MismatchDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.PairCount == 0 {
		c.PairCount = DefaultPairCount
	}
	if c.Catalog == nil {
		c.Catalog = DefaultCatalog
	}
	if c.MatchDelay == 0 {
		c.MatchDelay = DefaultMatchDelay
	}
	if c.MismatchDelay == 0 {
		c.MismatchDelay = DefaultMismatchDelay
	}
	return c
}

func (c Config) validate() error {
	if c.MatchDelay < 0 || c.MismatchDelay < 0 {
		return ErrInvalidDelay
	}
	return checkCatalog(c.PairCount, c.Catalog)
}

type options struct {
	scheduler Scheduler
	intn      func(n int) int
	observer  func(Event)
}

// Option customizes a Game or Gate.
type Option func(*options)

// WithScheduler replaces the system timer with s.
func WithScheduler(s Scheduler) Option {
	return func(o *options) { o.scheduler = s }
}

// WithRand sets the random source used to shuffle decks.
func WithRand(intn func(n int) int) Option {
	return func(o *options) { o.intn = intn }
}

// WithObserver registers a callback for every game event. Events arrive one at
// a time in the order the transitions happened, without the game lock held,
// so the observer may call back into the game. Delivery may happen on the
// goroutine of a later transition.
func WithObserver(f func(Event)) Option {
	return func(o *options) { o.observer = f }
}

// FlipResult describes what a Flip did.
type FlipResult int

const (
	FlipIgnored FlipResult = iota
	FlipFirst
	FlipPair
)

func (r FlipResult) String() string {
	switch r {
	case FlipFirst:
		return "first"
	case FlipPair:
		return "pair"
	default:
		return "ignored"
	}
}

// EventKind names a game transition.
type EventKind string

const (
	EventStarted    EventKind = "started"
	EventFlipped    EventKind = "flipped"
	EventMatched    EventKind = "matched"
	EventMismatched EventKind = "mismatched"
	EventWon        EventKind = "won"
	EventRestarted  EventKind = "restarted"
	EventClosed     EventKind = "closed"
)

// Event is emitted to the observer after a transition.
type Event struct {
	Kind       EventKind
	Generation uint64
	Moves      int
	Indices    []int
}

// State is a copy of one session's mutable state.
type State struct {
	Status     Status
	Deck       Deck
	Flipped    []int
	Matched    []int
	Moves      int
	Locked     bool
	Checking   bool
	Generation uint64
	Closed     bool
}

// Game is the memory-match state machine. All transitions, including timer
// callbacks, are serialized by one lock.
type Game struct {
	cfg  Config
	opts options

	mu         sync.Mutex
	status     Status
	deck       Deck
	flipped    []int
	matched    []int
	moves      int
	locked     bool
	checking   bool
	generation uint64
	closed     bool
	pending    Timer

	queue    []Event
	draining bool
}

// NewGame validates cfg and returns a game in StatusNotStarted.
func NewGame(cfg Config, opts ...Option) (*Game, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	o := options{scheduler: SystemScheduler{}, intn: SecureIntn}
	for _, opt := range opts {
		opt(&o)
	}
	return &Game{
		cfg:    cfg,
		opts:   o,
		status: StatusNotStarted,
		locked: true,
	}, nil
}

// Config returns the effective configuration.
func (g *Game) Config() Config {
	return g.cfg
}

// Start deals the first deck.
func (g *Game) Start() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return ErrClosed
	}
	if g.status != StatusNotStarted {
		g.mu.Unlock()
		return ErrAlreadyStarted
	}
	if err := g.resetLocked(); err != nil {
		g.mu.Unlock()
		return err
	}
	g.queueLocked(EventStarted)
	g.mu.Unlock()
	g.emit()
	return nil
}

// Restart replaces the session with a fresh deck. Any pending resolution from
// the previous session is cancelled and, if it still fires, has no effect.
func (g *Game) Restart() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return ErrClosed
	}
	if g.status == StatusNotStarted {
		g.mu.Unlock()
		return ErrNotStarted
	}
	if err := g.resetLocked(); err != nil {
		g.mu.Unlock()
		return err
	}
	g.queueLocked(EventRestarted)
	g.mu.Unlock()
	g.emit()
	return nil
}

func (g *Game) resetLocked() error {
	deck, err := Generate(g.cfg.PairCount, g.cfg.Catalog, g.opts.intn)
	if err != nil {
		return fmt.Errorf("deal deck: %w", err)
	}
	g.cancelPendingLocked()
	g.generation++
	g.status = StatusActive
	g.deck = deck
	g.flipped = nil
	g.matched = nil
	g.moves = 0
	g.locked = true
	g.checking = false
	return nil
}

func (g *Game) cancelPendingLocked() {
	if g.pending != nil {
		g.pending.Stop()
		g.pending = nil
	}
}

// Flip turns the card at index face up. Clicks that cannot apply are ignored.
func (g *Game) Flip(index int) FlipResult {
	g.mu.Lock()
	if !g.acceptsLocked(index) {
		g.mu.Unlock()
		return FlipIgnored
	}
	g.flipped = append(g.flipped, index)
	if len(g.flipped) == 1 {
		g.queueLocked(EventFlipped, index)
		g.mu.Unlock()
		g.emit()
		return FlipFirst
	}

	a, b := g.flipped[0], g.flipped[1]
	g.checking = true
	g.moves++
	match := g.deck[a].Symbol == g.deck[b].Symbol
	delay := g.cfg.MismatchDelay
	if match {
		delay = g.cfg.MatchDelay
	}
	gen := g.generation
	g.pending = g.opts.scheduler.AfterFunc(delay, func() {
		g.resolve(gen, a, b, match)
	})
	g.queueLocked(EventFlipped, index)
	g.mu.Unlock()
	g.emit()
	return FlipPair
}

func (g *Game) acceptsLocked(index int) bool {
	switch {
	case g.closed, g.status != StatusActive, g.checking:
		return false
	case index < 0 || index >= len(g.deck):
		return false
	case slices.Contains(g.matched, index), slices.Contains(g.flipped, index):
		return false
	}
	return true
}

// resolve settles a compared pair. gen pins it to the session that
// scheduled it.
func (g *Game) resolve(gen uint64, a, b int, match bool) {
	g.mu.Lock()
	if g.closed || gen != g.generation || !g.checking {
		g.mu.Unlock()
		return
	}
	g.pending = nil
	if match {
		g.matched = append(g.matched, a, b)
		g.queueLocked(EventMatched, a, b)
	} else {
		g.queueLocked(EventMismatched, a, b)
	}
	g.flipped = nil
	g.checking = false
	if len(g.matched) == len(g.deck) {
		g.status = StatusWon
		g.locked = false
		g.queueLocked(EventWon)
	}
	g.mu.Unlock()
	g.emit()
}

// Close tears the game down. Pending resolutions become no-ops and further
// actions are ignored.
func (g *Game) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.cancelPendingLocked()
	g.generation++
	g.closed = true
	g.checking = false
	g.queueLocked(EventClosed)
	g.mu.Unlock()
	g.emit()
}

// Snapshot returns a copy of the current state.
func (g *Game) Snapshot() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return State{
		Status:     g.status,
		Deck:       slices.Clone(g.deck),
		Flipped:    slices.Clone(g.flipped),
		Matched:    slices.Clone(g.matched),
		Moves:      g.moves,
		Locked:     g.locked,
		Checking:   g.checking,
		Generation: g.generation,
		Closed:     g.closed,
	}
}

// Status returns the lifecycle stage.
func (g *Game) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// whileOpen runs f under the game lock with the current status, unless the
// game is closed.
func (g *Game) whileOpen(f func(Status) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return ErrClosed
	}
	return f(g.status)
}

func (g *Game) queueLocked(kind EventKind, indices ...int) {
	if g.opts.observer == nil {
		return
	}
	g.queue = append(g.queue, Event{Kind: kind, Generation: g.generation, Moves: g.moves, Indices: indices})
}

// emit delivers queued events in transition order. Only one goroutine drains
// at a time; others leave their events for it.
func (g *Game) emit() {
	g.mu.Lock()
	if g.draining {
		g.mu.Unlock()
		return
	}
	g.draining = true
	for len(g.queue) > 0 {
		evs := g.queue
		g.queue = nil
		g.mu.Unlock()
		for _, ev := range evs {
			g.opts.observer(ev)
		}
		g.mu.Lock()
	}
	g.draining = false
	g.mu.Unlock()
}
