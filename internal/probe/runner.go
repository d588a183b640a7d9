package probe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nholik/pulsecheck/internal/health"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrTimeout marks a probe that produced no verdict within its deadline.
var ErrTimeout = errors.New("timeout")

const (
	// DefaultTimeout bounds a single probe execution.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxConcurrent bounds parallel probe executions within a batch.
	DefaultMaxConcurrent = 8
)

// Runner executes probe batches with independent per-probe deadlines and
// fault isolation. A batch as a whole cannot fail: every probe contributes
// exactly one result no matter how it misbehaves, and results come back in
// input order regardless of completion order.
type Runner struct {
	logger        zerolog.Logger
	timeout       time.Duration
	maxConcurrent int
}

// Option customizes runner behavior.
type Option func(*Runner)

// WithTimeout sets the per-probe deadline. Non-positive values keep the
// default.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Runner) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithMaxConcurrent caps parallel probe executions; values <= 0 run one
// task per probe.
func WithMaxConcurrent(n int) Option {
	return func(r *Runner) {
		r.maxConcurrent = n
	}
}

// NewRunner constructs a Runner with the given logger.
func NewRunner(logger zerolog.Logger, opts ...Option) *Runner {
	r := &Runner{
		logger:        logger,
		timeout:       DefaultTimeout,
		maxConcurrent: DefaultMaxConcurrent,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Timeout reports the per-probe deadline in effect.
func (r *Runner) Timeout() time.Duration {
	return r.timeout
}

// Run executes every probe and returns one result per probe, placed at the
// probe's input position. It returns once each probe has completed, panicked
// or been timed out individually; a hung probe delays nothing beyond its own
// deadline. An empty batch is not an error and yields an empty result set.
func (r *Runner) Run(ctx context.Context, probes []Probe) []health.Result {
	results := make([]health.Result, len(probes))
	if len(probes) == 0 {
		return results
	}

	var group errgroup.Group
	if r.maxConcurrent > 0 {
		group.SetLimit(r.maxConcurrent)
	}

	for i, p := range probes {
		group.Go(func() error {
			results[i] = r.runOne(ctx, p)
			return nil
		})
	}
	_ = group.Wait()

	return results
}

// runOne executes a single probe under its deadline. Panics are translated
// into an Unhealthy result here so one broken implementation cannot abort
// the batch.
func (r *Runner) runOne(ctx context.Context, p Probe) health.Result {
	start := time.Now()

	checkCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	verdict := make(chan health.Result, 1)
	go func() {
		defer func() {
			if cause := recover(); cause != nil {
				r.logger.Error().
					Str("probe", p.Name()).
					Interface("cause", cause).
					Msg("probe panicked")
				verdict <- health.Unhealthy("probe panicked", fmt.Errorf("probe panicked: %v", cause))
			}
		}()
		verdict <- p.Check(checkCtx)
	}()

	var result health.Result
	select {
	case result = <-verdict:
	case <-checkCtx.Done():
		// The probe is abandoned, not joined: a check that ignores its
		// deadline must not stall sibling probes or the batch.
		if errors.Is(checkCtx.Err(), context.DeadlineExceeded) {
			r.logger.Warn().
				Str("probe", p.Name()).
				Dur("timeout", r.timeout).
				Msg("probe timed out")
			result = health.Degraded(fmt.Sprintf("no verdict within %s", r.timeout), ErrTimeout)
		} else {
			result = health.Unknown("canceled before verdict", checkCtx.Err())
		}
	}

	result.Name = p.Name()
	result.Latency = time.Since(start)
	result.ObservedAt = time.Now().UTC()
	return result
}
