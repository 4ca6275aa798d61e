package resilience

import (
	"sync"
	"time"

	"github.com/fraudlens-ai/fraudlens/internal/fault"
)

// State is the position of a target's circuit.
type State string

const (
	// StateClosed admits every call.
	StateClosed State = "closed"
	// StateOpen refuses every call until the cooldown elapses.
	StateOpen State = "open"
	// StateHalfOpen admits a single probe call and refuses the rest.
	StateHalfOpen State = "half_open"
)

// StateChangeFunc is notified after a breaker transition. It runs outside
// the breaker lock, so it may publish events or call back into the breaker.
type StateChangeFunc func(target string, from, to State)

// BreakerConfig holds the trip policy for one target.
type BreakerConfig struct {
	// Threshold is the consecutive transient failure count that opens
	// the circuit.
	Threshold int
	// Cooldown is how long an open circuit refuses calls before admitting
	// a half-open probe.
	Cooldown time.Duration
	// OnStateChange, when set, observes every transition.
	OnStateChange StateChangeFunc
}

// Breaker tracks consecutive transient failures against a single outbound
// target and refuses calls while the target is presumed down. Callers ask
// Allow before dialing and Record the outcome of every admitted call;
// refused calls must not be recorded.
type Breaker struct {
	target string
	cfg    BreakerConfig
	now    func() time.Time

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	probing  bool
}

// NewBreaker creates a closed breaker for the named target.
func NewBreaker(target string, cfg BreakerConfig) *Breaker {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultBreakerThreshold
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultBreakerCooldown
	}
	return &Breaker{
		target: target,
		cfg:    cfg,
		now:    time.Now,
		state:  StateClosed,
	}
}

// Target returns the name the breaker guards.
func (b *Breaker) Target() string { return b.target }

// Allow reports whether a call may proceed. While the circuit is open it
// returns a circuit-open fault without touching the network; once the
// cooldown has elapsed the first caller through is admitted as the probe
// and concurrent callers keep getting refused until the probe resolves.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	var from, to State
	var err error
	switch {
	case b.state == StateClosed:
		// admitted
	case b.state == StateOpen && b.now().Sub(b.openedAt) >= b.cfg.Cooldown:
		from, to = b.state, StateHalfOpen
		b.state = StateHalfOpen
		b.probing = true
	case b.state == StateHalfOpen && !b.probing:
		b.probing = true
	default:
		err = fault.CircuitOpen(b.target)
	}
	b.mu.Unlock()
	if to != "" {
		b.emit(from, to)
	}
	return err
}

// Record feeds the outcome of an admitted call back into the breaker.
// A nil error or a terminal failure proves the target is answering and
// closes the circuit. Transient failures extend the streak and can trip
// it. Cancelled calls say nothing about the target; they only release the
// half-open probe slot.
func (b *Breaker) Record(err error) {
	var kind fault.Kind
	if err != nil {
		kind = fault.Classify(err)
	}

	b.mu.Lock()
	var from, to State
	switch kind {
	case fault.KindCancelled:
		b.probing = false
	case fault.KindCircuitOpen:
		// A refusal never reached the target.
	case fault.KindTransient:
		b.failures++
		b.probing = false
		if b.state == StateHalfOpen || (b.state == StateClosed && b.failures >= b.cfg.Threshold) {
			from, to = b.state, StateOpen
			b.state = StateOpen
			b.openedAt = b.now()
		}
	default:
		b.failures = 0
		b.probing = false
		if b.state != StateClosed {
			from, to = b.state, StateClosed
			b.state = StateClosed
		}
	}
	b.mu.Unlock()
	if to != "" {
		b.emit(from, to)
	}
}

// State returns the circuit's current position.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Failures returns the current consecutive transient failure count.
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

func (b *Breaker) emit(from, to State) {
	if b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(b.target, from, to)
	}
}
