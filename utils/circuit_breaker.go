package utils

import (
	"errors"
	"sync"
	"time"
)

// ErrBreakerOpen is returned while a circuit breaker is rejecting requests.
var ErrBreakerOpen = errors.New("circuit breaker is open")

type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

// CircuitBreaker guards a flaky upstream. It stays closed until consecutive
// failures reach the threshold, then rejects requests for the cooldown
// period, after which a single trial request decides whether to close again.
type CircuitBreaker struct {
	name      string
	threshold uint32
	cooldown  time.Duration

	mu       sync.Mutex
	state    breakerState
	failures uint32
	openedAt time.Time
}

func NewCircuitBreaker(name string, threshold uint32, cooldown time.Duration) *CircuitBreaker {
	if threshold == 0 {
		threshold = 3
	}
	if cooldown <= 0 {
		cooldown = time.Minute
	}
	return &CircuitBreaker{
		name:      name,
		threshold: threshold,
		cooldown:  cooldown,
	}
}

// Allow reports whether a request may proceed. In the open state it starts
// rejecting with ErrBreakerOpen until the cooldown elapses, then lets one
// trial request through.
func (cb *CircuitBreaker) Allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case breakerClosed:
		return nil
	case breakerOpen:
		if time.Since(cb.openedAt) >= cb.cooldown {
			cb.state = breakerHalfOpen
			return nil
		}
		return ErrBreakerOpen
	default: // half-open: trial already in flight
		return ErrBreakerOpen
	}
}

// Report records the outcome of a request previously admitted by Allow.
func (cb *CircuitBreaker) Report(success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if success {
		cb.state = breakerClosed
		cb.failures = 0
		return
	}

	cb.failures++
	if cb.state == breakerHalfOpen || cb.failures >= cb.threshold {
		cb.state = breakerOpen
		cb.openedAt = time.Now()
	}
}
