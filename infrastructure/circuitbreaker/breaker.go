// Package circuitbreaker stops calling a failing dependency for a cool-down
// period so callers can go straight to their fallback.
package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned by Execute while the circuit is open.
var ErrOpen = errors.New("circuit breaker is open")

// State is the breaker position.
type State int

const (
	// StateClosed lets every call through.
	StateClosed State = iota
	// StateOpen rejects calls until the cool-down has elapsed.
	StateOpen
	// StateHalfOpen lets a single trial call through.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

const (
	defaultFailureThreshold = 3
	defaultCoolDown         = 30 * time.Second
)

// Config configures a Breaker. Zero values take the defaults.
type Config struct {
	// FailureThreshold is the number of consecutive failures that opens the circuit.
	FailureThreshold int
	// CoolDown is how long the circuit stays open before a trial call.
	CoolDown time.Duration
	// OnStateChange, when set, is called with the lock released.
	OnStateChange func(from, to State)
}

// Breaker is safe for concurrent use.
type Breaker struct {
	cfg Config
	now func() time.Time

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	trialing bool
}

// New creates a closed breaker.
func New(cfg Config) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = defaultFailureThreshold
	}
	if cfg.CoolDown <= 0 {
		cfg.CoolDown = defaultCoolDown
	}
	return &Breaker{cfg: cfg, now: time.Now}
}

// Execute runs fn unless the circuit is open. fn's error counts as a
// failure; ErrOpen is returned without calling fn.
func (b *Breaker) Execute(fn func() error) error {
	if err := b.acquire(); err != nil {
		return err
	}
	err := fn()
	b.record(err == nil)
	return err
}

// State returns the current position.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) acquire() error {
	b.mu.Lock()

	switch b.state {
	case StateClosed:
		b.mu.Unlock()
		return nil
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.cfg.CoolDown {
			b.mu.Unlock()
			return ErrOpen
		}
		notify := b.transition(StateHalfOpen)
		b.trialing = true
		b.mu.Unlock()
		notify()
		return nil
	default: // half-open: one trial at a time
		if b.trialing {
			b.mu.Unlock()
			return ErrOpen
		}
		b.trialing = true
		b.mu.Unlock()
		return nil
	}
}

func (b *Breaker) record(ok bool) {
	b.mu.Lock()
	notify := func() {}

	b.trialing = false
	switch {
	case ok:
		b.failures = 0
		if b.state != StateClosed {
			notify = b.transition(StateClosed)
		}
	case b.state == StateHalfOpen:
		notify = b.open()
	default:
		b.failures++
		if b.state == StateClosed && b.failures >= b.cfg.FailureThreshold {
			notify = b.open()
		}
	}

	b.mu.Unlock()
	notify()
}

func (b *Breaker) open() func() {
	b.failures = 0
	b.openedAt = b.now()
	return b.transition(StateOpen)
}

// transition must be called with mu held. The returned func fires the
// callback and must be called after unlocking.
func (b *Breaker) transition(to State) func() {
	from := b.state
	b.state = to
	if b.cfg.OnStateChange == nil || from == to {
		return func() {}
	}
	return func() { b.cfg.OnStateChange(from, to) }
}
