package rag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// PollPolicy is a fixed-cadence polling budget. The worst-case wait is
// Interval × MaxAttempts.
type PollPolicy struct {
	Interval    time.Duration
	MaxAttempts int
}

// Default budgets. Ingestion is short and sub-minute; query answering may
// take several minutes of model inference.
var (
	DefaultIngestPolicy = PollPolicy{Interval: 2 * time.Second, MaxAttempts: 25}
	DefaultQueryPolicy  = PollPolicy{Interval: 3 * time.Second, MaxAttempts: 100}
)

// Budget returns the upper bound on total wall-clock wait.
func (p PollPolicy) Budget() time.Duration {
	return p.Interval * time.Duration(p.MaxAttempts)
}

// Validate checks that the policy can make progress.
func (p PollPolicy) Validate() error {
	if p.Interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s: %w", p.Interval, ErrValidation)
	}
	if p.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d: %w", p.MaxAttempts, ErrValidation)
	}
	return nil
}

// StatusFunc performs one status lookup for a job.
type StatusFunc func(ctx context.Context, jobID string) (Snapshot, error)

// Attempt describes one completed status lookup.
type Attempt struct {
	JobID       string
	N           int // 1-based
	MaxAttempts int
	Snapshot    Snapshot // nil when Err is set
	Err         error
}

// AwaitOption configures a single Await invocation.
type AwaitOption func(*awaitConfig)

type awaitConfig struct {
	logger  *slog.Logger
	observe func(Attempt)
}

// WithAwaitLogger sets the logger for transient lookup failures.
func WithAwaitLogger(l *slog.Logger) AwaitOption {
	return func(c *awaitConfig) { c.logger = l }
}

// WithAttemptObserver sets a callback invoked after every status lookup.
func WithAttemptObserver(fn func(Attempt)) AwaitOption {
	return func(c *awaitConfig) { c.observe = fn }
}

// Await polls status at a fixed cadence until the job reaches a terminal
// state, the budget runs out, or ctx is done.
//
// Each attempt first waits policy.Interval, then performs exactly one
// lookup, so at most policy.MaxAttempts lookups are issued. A lookup that
// fails with ErrNotFound is treated as processing on the first attempt only;
// on any later attempt Await returns a *NotRegisteredError. Other lookup
// failures are logged and retried at the next scheduled attempt.
//
// Returns the result of a Succeeded[T] snapshot, a *JobError for a Failed
// snapshot, or a *TimeoutError when the budget is exhausted.
func Await[T any](ctx context.Context, jobID string, status StatusFunc, policy PollPolicy, opts ...AwaitOption) (T, error) {
	var zero T
	if err := policy.Validate(); err != nil {
		return zero, err
	}
	cfg := awaitConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if err := sleep(ctx, policy.Interval); err != nil {
			return zero, err
		}

		snap, err := status(ctx, jobID)
		if cfg.observe != nil {
			cfg.observe(Attempt{JobID: jobID, N: attempt, MaxAttempts: policy.MaxAttempts, Snapshot: snap, Err: err})
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return zero, ctxErr
			}
			if errors.Is(err, ErrNotFound) {
				if attempt == 1 {
					cfg.logger.Debug("job not registered yet", "job_id", jobID)
					continue
				}
				return zero, &NotRegisteredError{JobID: jobID, Attempt: attempt}
			}
			cfg.logger.Warn("status lookup failed", "job_id", jobID, "attempt", attempt, "error", err)
			lastErr = err
			continue
		}

		switch s := snap.(type) {
		case Processing:
			continue
		case Succeeded[T]:
			return s.Result, nil
		case Failed:
			return zero, &JobError{JobID: jobID, Message: s.Message}
		default:
			return zero, fmt.Errorf("job %s: unexpected snapshot %T", jobID, snap)
		}
	}

	return zero, &TimeoutError{
		JobID:    jobID,
		Attempts: policy.MaxAttempts,
		Budget:   policy.Budget(),
		LastErr:  lastErr,
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
