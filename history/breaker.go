package history

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mmmmuhib/agentvault/metrics"
)

const (
	breakerThreshold = 3
	breakerCooldown  = 60 * time.Second
)

// CircuitOpenError is the explicit fast-fail returned while a breaker is
// open. It always carries the remaining cooldown so callers can report when
// the source becomes worth trying again.
type CircuitOpenError struct {
	Source    string
	Remaining time.Duration
}

func (e *CircuitOpenError) Error() string {
	return fmt.Sprintf("%s unavailable: circuit open for another %s", e.Source, e.Remaining.Round(time.Second))
}

// Breaker is a consecutive-failure circuit breaker. After threshold failures
// it opens for cooldown, rejecting calls without touching the network. The
// first call after the cooldown is the half-open probe; its success resets
// the failure counter, its failure re-opens the circuit.
type Breaker struct {
	mu       sync.Mutex
	source   string
	failures int
	openedAt time.Time
	now      func() time.Time
}

func NewBreaker(source string) *Breaker {
	return &Breaker{source: source, now: time.Now}
}

// Allow reports whether a call may proceed. While open it returns a
// *CircuitOpenError; it never blocks.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failures < breakerThreshold {
		return nil
	}
	remaining := breakerCooldown - b.now().Sub(b.openedAt)
	if remaining > 0 {
		return &CircuitOpenError{Source: b.source, Remaining: remaining}
	}
	// Cooldown elapsed: let the half-open probe through.
	return nil
}

// Success resets the failure counter and closes the circuit.
func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failures >= breakerThreshold {
		log.Info().Str("source", b.source).Msg("circuit closed after successful probe")
		metrics.Observer.IncrementBreakerTransition(b.source, "closed")
		metrics.Observer.NoteBreakerState(b.source, false)
	}
	b.failures = 0
}

// Failure records one failed call, opening (or re-opening) the circuit once
// the threshold is reached.
func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	if b.failures >= breakerThreshold {
		b.openedAt = b.now()
		log.Warn().
			Str("source", b.source).
			Int("failures", b.failures).
			Dur("cooldown", breakerCooldown).
			Msg("circuit opened")
		metrics.Observer.IncrementBreakerTransition(b.source, "open")
		metrics.Observer.NoteBreakerState(b.source, true)
	}
}
