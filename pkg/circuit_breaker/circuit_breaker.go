package circuit_breaker

import (
	"errors"
	"sync"
	"time"
)

type State uint8

const (
	Closed   State = 1
	Open     State = 2
	HalfOpen State = 3
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var ErrOpenCB = errors.New("circuit breaker is open")

type Settings struct {
	// Window is the number of most recent calls the failure ratio is computed over.
	Window int
	// Threshold is the failure ratio in the window that opens the breaker.
	Threshold float64
	// Cooldown is how long the breaker stays open before letting a probe through.
	Cooldown time.Duration
	// Recovery is the number of consecutive half-open successes needed to close.
	Recovery int
}

type CircuitBreaker interface {
	Call(fn func() error) error
	State() State
	Reset()
}

type Option func(*circuitBreaker)

func WithClock(now func() time.Time) Option {
	return func(cb *circuitBreaker) {
		cb.now = now
	}
}

// WithStateListener is called, with the breaker lock held, on every transition.
func WithStateListener(fn func(from, to State)) Option {
	return func(cb *circuitBreaker) {
		cb.onChange = fn
	}
}

type circuitBreaker struct {
	mu       sync.Mutex
	settings Settings
	now      func() time.Time
	onChange func(from, to State)

	state    State
	openedAt time.Time
	failures []bool
	pos      int
	probes   int
}

func NewCircuitBreaker(s Settings, opts ...Option) CircuitBreaker {
	if s.Window <= 0 {
		s.Window = 10
	}
	if s.Threshold <= 0 || s.Threshold > 1 {
		s.Threshold = 0.5
	}
	if s.Recovery <= 0 {
		s.Recovery = 1
	}
	cb := &circuitBreaker{
		settings: s,
		now:      time.Now,
		state:    Closed,
		failures: make([]bool, s.Window),
	}
	for _, opt := range opts {
		opt(cb)
	}
	return cb
}

func (cb *circuitBreaker) Call(fn func() error) error {
	if !cb.allow() {
		return ErrOpenCB
	}
	err := fn()
	cb.record(err != nil)
	return err
}

func (cb *circuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state != Open {
		return true
	}
	if cb.now().Sub(cb.openedAt) < cb.settings.Cooldown {
		return false
	}
	cb.transition(HalfOpen)
	cb.probes = 0
	return true
}

func (cb *circuitBreaker) record(failed bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures[cb.pos] = failed
	cb.pos = (cb.pos + 1) % len(cb.failures)

	switch cb.state {
	case HalfOpen:
		if failed {
			cb.trip()
			return
		}
		cb.probes++
		if cb.probes >= cb.settings.Recovery {
			cb.reset()
		}
	case Closed:
		fails := 0
		for _, f := range cb.failures {
			if f {
				fails++
			}
		}
		if float64(fails)/float64(len(cb.failures)) >= cb.settings.Threshold {
			cb.trip()
		}
	}
}

func (cb *circuitBreaker) trip() {
	cb.transition(Open)
	cb.openedAt = cb.now()
	cb.probes = 0
}

func (cb *circuitBreaker) transition(to State) {
	if cb.state == to {
		return
	}
	from := cb.state
	cb.state = to
	if cb.onChange != nil {
		cb.onChange(from, to)
	}
}

func (cb *circuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *circuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.reset()
}

func (cb *circuitBreaker) reset() {
	for i := range cb.failures {
		cb.failures[i] = false
	}
	cb.pos = 0
	cb.probes = 0
	cb.transition(Closed)
}
