// Package retry implements the bounded retry loop used by the booking engine.
//
// A run starts Attempting, classifies every attempt result as Success,
// LogicalFailure or Transient, backs off between transient attempts, and
// ends Exhausted once the attempt budget is spent.
package retry

import (
	"math/rand/v2"
	"time"
)

// Outcome classifies one attempt, or a whole run once it has ended.
type Outcome int

const (
	Success Outcome = iota
	// LogicalFailure is a deterministic rejection, never retried.
	LogicalFailure
	// Transient is a contention failure worth another attempt.
	Transient
	// Exhausted means the last attempt was transient and the budget is spent.
	Exhausted
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case LogicalFailure:
		return "logical_failure"
	case Transient:
		return "transient"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Policy bounds a run. The delay before attempt n+1 is
// BaseDelay*Multiplier^(n-1) plus a uniform jitter in [0, MaxJitter].
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	MaxJitter   time.Duration
}

// DefaultPolicy allows 3 attempts with 100ms then 200ms backoff and up to
// 50ms jitter.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		Multiplier:  2,
		MaxJitter:   50 * time.Millisecond,
	}
}

// Normalize replaces unusable values with defaults.
func (p Policy) Normalize() Policy {
	d := DefaultPolicy()
	if p.MaxAttempts < 1 {
		p.MaxAttempts = d.MaxAttempts
	}
	if p.BaseDelay < 0 {
		p.BaseDelay = 0
	}
	if p.Multiplier < 1 {
		p.Multiplier = 1
	}
	if p.MaxJitter < 0 {
		p.MaxJitter = 0
	}
	return p
}

// Backoff returns the delay before attempt+1, without jitter. attempt is 1-based.
func (p Policy) Backoff(attempt int) time.Duration {
	delay := float64(p.BaseDelay)
	for i := 1; i < attempt; i++ {
		delay *= p.Multiplier
	}
	return time.Duration(delay)
}

// Classify maps the result of the given 1-based attempt to an outcome.
func (p Policy) Classify(attempt int, err error, isTransient func(error) bool) Outcome {
	switch {
	case err == nil:
		return Success
	case !isTransient(err):
		return LogicalFailure
	case attempt >= p.MaxAttempts:
		return Exhausted
	default:
		return Transient
	}
}

type Result struct {
	Outcome  Outcome
	Attempts int
	// Err is the error of the last attempt, nil on Success.
	Err error
}

// Runner drives attempts under a Policy. Sleep and Jitter default to
// time.Sleep and a uniform draw in [0, MaxJitter].
type Runner struct {
	Policy Policy
	Sleep  func(time.Duration)
	Jitter func(max time.Duration) time.Duration
	// OnRetry is called before sleeping after a transient attempt.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// NewRunner returns a Runner with a normalized policy and default Sleep
// and Jitter.
func NewRunner(p Policy) *Runner {
	return &Runner{Policy: p.Normalize()}
}

// Run calls fn with the 1-based attempt number until it succeeds, fails
// logically or the budget is spent. There is no sleep after the last attempt.
func (r *Runner) Run(isTransient func(error) bool, fn func(attempt int) error) Result {
	p := r.Policy.Normalize()
	sleep := r.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	jitter := r.Jitter
	if jitter == nil {
		jitter = UniformJitter
	}

	for attempt := 1; ; attempt++ {
		err := fn(attempt)
		outcome := p.Classify(attempt, err, isTransient)
		if outcome != Transient {
			return Result{Outcome: outcome, Attempts: attempt, Err: err}
		}

		delay := p.Backoff(attempt) + jitter(p.MaxJitter)
		if r.OnRetry != nil {
			r.OnRetry(attempt, delay, err)
		}
		sleep(delay)
	}
}

// UniformJitter draws uniformly from [0, max].
func UniformJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(max) + 1))
}
