// Package resilience guards outbound calls with an exponential retry
// schedule and per-target circuit breakers. Failures cross the package
// boundary already classified, so callers never see raw transport errors.
package resilience

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/fraudlens-ai/fraudlens/internal/fault"
	"github.com/fraudlens-ai/fraudlens/internal/logging"
	"github.com/fraudlens-ai/fraudlens/pkg/types"
)

// Defaults applied when a resilience knob is unset.
const (
	DefaultMaxAttempts      = 6
	DefaultBackoffBase      = 2.0
	DefaultBackoffUnit      = time.Second
	DefaultBreakerThreshold = 5
	DefaultBreakerCooldown  = 30 * time.Second
)

// Func is a single attempt of an outbound call.
type Func func(ctx context.Context) error

// Invoker applies the retry and breaker policy to every outbound target.
// Breakers are created lazily per target name, so two providers never
// share a failure streak.
type Invoker struct {
	cfg types.ResilienceConfig

	mu       sync.Mutex
	onChange StateChangeFunc
	breakers map[string]*Breaker
}

// NewInvoker creates an Invoker with defaults filled in for any unset knob.
func NewInvoker(cfg types.ResilienceConfig) *Invoker {
	return &Invoker{
		cfg:      normalizeConfig(cfg),
		breakers: make(map[string]*Breaker),
	}
}

// OnStateChange registers an observer for breaker transitions on every
// target. The observer runs outside all locks.
func (i *Invoker) OnStateChange(fn StateChangeFunc) {
	i.mu.Lock()
	i.onChange = fn
	i.mu.Unlock()
}

// Do runs fn against the named target under the full policy. Each attempt
// must first be admitted by the target's breaker; transient failures are
// retried on the exponential schedule, while terminal, cancelled, and
// circuit-open outcomes end the loop at once. When the attempt budget runs
// out the last failure is returned.
//
// The breaker takes precedence over the retry budget: when the failure
// threshold is reached mid-loop the next attempt is refused without
// dialing and the call surfaces CircuitOpen, even if retries remain.
func (i *Invoker) Do(ctx context.Context, target string, fn Func) error {
	bo := i.newBackoff(ctx)
	attempt := 0
	for {
		attempt++
		err := i.DoOnce(ctx, target, fn)
		if err == nil || !fault.IsTransient(err) {
			return err
		}
		wait := bo.NextBackOff()
		if wait == backoff.Stop {
			// The context-aware schedule also answers Stop for a dead
			// context; keep that distinguishable from a spent budget.
			if ctx.Err() != nil {
				return fault.Cancelled(target, ctx.Err())
			}
			logging.Warn().Str("target", target).Int("attempts", attempt).Err(err).
				Msg("Attempt budget exhausted")
			return err
		}
		logging.Debug().Str("target", target).Int("attempt", attempt).Dur("wait", wait).Err(err).
			Msg("Retrying after transient failure")
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fault.Cancelled(target, ctx.Err())
		case <-timer.C:
		}
	}
}

// DoOnce runs a single breaker-guarded attempt without the retry schedule.
func (i *Invoker) DoOnce(ctx context.Context, target string, fn Func) error {
	br := i.breaker(target)
	if err := br.Allow(); err != nil {
		return err
	}
	err := normalize(target, fn(ctx))
	br.Record(err)
	return err
}

// BreakerStates snapshots the circuit position of every target seen so far.
func (i *Invoker) BreakerStates() map[string]State {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make(map[string]State, len(i.breakers))
	for name, br := range i.breakers {
		out[name] = br.State()
	}
	return out
}

// breaker returns the named target's breaker, creating it on first use.
func (i *Invoker) breaker(target string) *Breaker {
	i.mu.Lock()
	defer i.mu.Unlock()
	br, ok := i.breakers[target]
	if !ok {
		br = NewBreaker(target, BreakerConfig{
			Threshold:     i.cfg.BreakerThreshold,
			Cooldown:      i.cfg.BreakerCooldown,
			OnStateChange: i.emitStateChange,
		})
		i.breakers[target] = br
	}
	return br
}

func (i *Invoker) emitStateChange(target string, from, to State) {
	logging.Info().Str("target", target).Str("from", string(from)).Str("to", string(to)).
		Msg("Circuit breaker state changed")
	i.mu.Lock()
	fn := i.onChange
	i.mu.Unlock()
	if fn != nil {
		fn(target, from, to)
	}
}

// newBackoff builds the wait schedule between attempts: the wait before
// retry k is BackoffBase^k units, so the defaults give 2, 4, 8, 16 and 32
// units across a six-attempt budget.
func (i *Invoker) newBackoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Duration(float64(i.cfg.BackoffUnit) * i.cfg.BackoffBase)
	b.MaxInterval = time.Duration(float64(i.cfg.BackoffUnit) * math.Pow(i.cfg.BackoffBase, float64(i.cfg.MaxAttempts)))
	b.MaxElapsedTime = 0
	b.RandomizationFactor = 0
	b.Multiplier = i.cfg.BackoffBase
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(i.cfg.MaxAttempts-1)), ctx)
}

// normalize folds raw transport errors into the fault taxonomy so retry
// and breaker decisions always see a classified outcome. Context
// cancellation wins over any wrapped classification.
func normalize(target string, err error) error {
	if err == nil {
		return nil
	}
	kind := fault.Classify(err)
	var fe *fault.Error
	if errors.As(err, &fe) && fe.Kind == kind {
		return err
	}
	if kind == fault.KindCancelled {
		return fault.Cancelled(target, err)
	}
	return fault.Transient(target, "call failed", err)
}

func normalizeConfig(cfg types.ResilienceConfig) types.ResilienceConfig {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.BackoffBase <= 1 {
		cfg.BackoffBase = DefaultBackoffBase
	}
	if cfg.BackoffUnit <= 0 {
		cfg.BackoffUnit = DefaultBackoffUnit
	}
	if cfg.BreakerThreshold <= 0 {
		cfg.BreakerThreshold = DefaultBreakerThreshold
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = DefaultBreakerCooldown
	}
	return cfg
}
