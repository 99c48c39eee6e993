package infra

import (
	"errors"
	"sync"
	"time"
)

// CircuitBreaker guards calls to the Sheets API. After a run of consecutive
// failures it opens and rejects calls until the cool-down has elapsed, then
// lets calls probe again (half-open); a single probe success closes it.
type CircuitBreaker struct {
	mu        sync.Mutex
	state     CBState
	failures  int
	openedAt  time.Time
	threshold int
	coolDown  time.Duration
	now       func() time.Time
}

type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned by Execute while the breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// NewCircuitBreaker: threshold <= 0 defaults to 3, coolDown <= 0 to one minute.
func NewCircuitBreaker(threshold int, coolDown time.Duration) *CircuitBreaker {
	if threshold <= 0 {
		threshold = 3
	}
	if coolDown <= 0 {
		coolDown = time.Minute
	}
	return &CircuitBreaker{threshold: threshold, coolDown: coolDown, now: time.Now}
}

func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentLocked()
}

func (cb *CircuitBreaker) currentLocked() CBState {
	if cb.state == CBOpen && cb.now().Sub(cb.openedAt) >= cb.coolDown {
		cb.state = CBHalfOpen
	}
	return cb.state
}

// Execute runs fn unless the breaker is open. fn runs outside the lock.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	if cb.currentLocked() == CBOpen {
		cb.mu.Unlock()
		return ErrCircuitOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err == nil {
		cb.state = CBClosed
		cb.failures = 0
		return nil
	}
	cb.failures++
	if cb.state == CBHalfOpen || cb.failures >= cb.threshold {
		cb.state = CBOpen
		cb.openedAt = cb.now()
		cb.failures = 0
	}
	return err
}
