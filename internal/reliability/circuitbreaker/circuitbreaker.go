// Package circuitbreaker provides fast-fail behavior for a dependency
// that is failing repeatedly, so callers degrade instead of queueing
// behind timeouts.
package circuitbreaker

import (
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

// CircuitBreaker trips open after failureThreshold consecutive
// failures, probes again after timeout, and closes once
// successThreshold probes succeed.
type CircuitBreaker struct {
	mu               sync.Mutex
	state            State
	failureCount     int32
	successCount     int32
	lastFailure      time.Time
	failureThreshold int32
	successThreshold int32
	timeout          time.Duration
	onStateChange    func(from, to State)
}

// NewCircuitBreaker creates a closed breaker.
func NewCircuitBreaker(failureThreshold, successThreshold int32, timeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		state:            StateClosed,
		failureThreshold: failureThreshold,
		successThreshold: successThreshold,
		timeout:          timeout,
		onStateChange:    func(_, _ State) {},
	}
}

// SetStateChangeCallback registers a callback for state transitions.
// The callback runs with the breaker lock held; keep it cheap.
func (cb *CircuitBreaker) SetStateChangeCallback(fn func(from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onStateChange = fn
}

// RecordSuccess counts a successful call. In half-open state enough
// successes close the breaker; in closed state the failure streak
// resets.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.successThreshold {
			cb.transition(StateClosed)
		}
	case StateClosed:
		cb.failureCount = 0
	}
}

// RecordFailure counts a failed call. A failure while half-open trips
// straight back to open.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.lastFailure = time.Now()
	switch cb.state {
	case StateClosed:
		cb.failureCount++
		if cb.failureCount >= cb.failureThreshold {
			cb.transition(StateOpen)
		}
	case StateHalfOpen:
		cb.transition(StateOpen)
	}
}

// AllowRequest reports whether a call may proceed. An open breaker
// moves to half-open once the timeout has elapsed since the last
// failure.
func (cb *CircuitBreaker) AllowRequest() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed, StateHalfOpen:
		return true
	default:
		if time.Since(cb.lastFailure) > cb.timeout {
			cb.transition(StateHalfOpen)
			return true
		}
		return false
	}
}

// GetState returns the current state.
func (cb *CircuitBreaker) GetState() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// transition must be called with the lock held.
func (cb *CircuitBreaker) transition(to State) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to
	cb.failureCount = 0
	cb.successCount = 0
	cb.onStateChange(from, to)
}
