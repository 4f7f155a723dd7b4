// Package circuit provides a minimal closed/open/half-open circuit breaker
// used to stop hammering a failing external dependency.
package circuit

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// State of the breaker.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// ErrOpen is returned when the breaker rejects a call without running it.
var ErrOpen = errors.New("circuit breaker is open")

// Breaker opens after `threshold` consecutive failures and allows a probe
// call once `resetTimeout` has elapsed.
type Breaker struct {
	mu           sync.Mutex
	state        State
	failureCount int
	threshold    int
	resetTimeout time.Duration
	lastFailure  time.Time
}

// New creates a breaker in the closed state.
func New(threshold int, resetTimeout time.Duration) *Breaker {
	return &Breaker{
		threshold:    threshold,
		resetTimeout: resetTimeout,
		state:        StateClosed,
	}
}

// Execute runs action unless the breaker is open. Failures are counted;
// a success in half-open state closes the circuit again.
func (b *Breaker) Execute(action func() error) error {
	b.mu.Lock()
	if b.state == StateOpen {
		if time.Since(b.lastFailure) > b.resetTimeout {
			b.state = StateHalfOpen
			slog.Debug("Circuit transitioning to half-open")
		} else {
			b.mu.Unlock()
			return ErrOpen
		}
	}
	b.mu.Unlock()

	err := action()

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.failureCount++
		b.lastFailure = time.Now()
		if b.failureCount >= b.threshold && b.state != StateOpen {
			b.state = StateOpen
			slog.Warn("Circuit opened", slog.Int("failures", b.failureCount))
		}
		return err
	}

	if b.state == StateHalfOpen {
		slog.Debug("Circuit closed after half-open probe")
	}
	b.state = StateClosed
	b.failureCount = 0
	return nil
}

// State returns the current breaker state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
