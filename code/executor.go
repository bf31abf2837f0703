package code

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/playground/console"
)

// Executor is the main entry point for running a playground.
//
// Contract:
// - Concurrency: Run must be called from the host loop; runs never overlap.
// - Context: honors cancellation/deadlines during evaluation; deadline
// exceeded is wrapped with ErrLimitExceeded.
// - Errors: snippet failures are written to the transcript and reported in
// RunResult.Err; the returned error is reserved for failures of the run
// machinery itself (configuration, ErrRunInProgress).
// - Isolation: a run refused with ErrRunInProgress leaves the target's
// transcript and the channel binding untouched.
type Executor interface {
	// Run clears the target's transcript and evaluates its source.
	Run(ctx context.Context, target Target) (RunResult, error)
}

// DefaultExecutor is the standard implementation of Executor.
type DefaultExecutor struct {
	cfg Config
}

// NewDefaultExecutor creates a new DefaultExecutor with the given configuration.
// Returns ErrConfiguration if any required field is missing.
func NewDefaultExecutor(cfg Config) (*DefaultExecutor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &DefaultExecutor{cfg: cfg}, nil
}

// Run executes the run sequence for target.
func (e *DefaultExecutor) Run(ctx context.Context, target Target) (RunResult, error) {
	if target == nil {
		return RunResult{}, fmt.Errorf("%w: nil target", ErrConfiguration)
	}
	if e.cfg.Surface.Capturing() {
		return RunResult{}, fmt.Errorf("%w: %s", ErrRunInProgress, target.Key())
	}
	out := target.Output()
	result := RunResult{Key: target.Key()}

	out.Clear()
	if e.cfg.Channel != nil {
		e.cfg.Channel.Bind(out)
	}

	if e.needsFixture(target) && e.cfg.Scaffold.SpawnFixture() {
		target.SetState(StatePendingScaffold)
		next := context.WithoutCancel(ctx)
		e.cfg.Scheduler.Post(func() {
			if _, err := e.Run(next, target); err != nil {
				e.cfg.Logger.Logf("deferred run %s: %v", target.Key(), err)
			}
		})
		result.Deferred = true
		e.cfg.Logger.Logf("run %s deferred until the fixture is attached", target.Key())
		return result, nil
	}

	return e.evaluate(ctx, target, result)
}

func (e *DefaultExecutor) needsFixture(target Target) bool {
	return e.cfg.Scaffold != nil && target.RequiresFixture() && !e.cfg.Scaffold.FixtureExists()
}

func (e *DefaultExecutor) evaluate(ctx context.Context, target Target, result RunResult) (RunResult, error) {
	out := target.Output()
	target.SetState(StateRunning)
	defer target.SetState(StateIdle)

	timeout := e.cfg.DefaultTimeout
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	var failure error
	err := e.cfg.Surface.WithCapture(out, func() error {
		failure = e.invoke(ctx, target.Source())
		return nil
	})
	result.Duration = time.Since(start)
	if err != nil {
		return result, err
	}

	if failure != nil {
		if errors.Is(failure, context.DeadlineExceeded) {
			failure = fmt.Errorf("%w: timeout after %v", ErrLimitExceeded, timeout)
		}
		out.Append(console.KindError, FailureMessage(failure))
		result.Err = failure
	}
	result.Entries = out.Len()

	e.cfg.Logger.Logf("run %s: %d entries in %dms", target.Key(), result.Entries, result.Duration.Milliseconds())
	return result, nil
}

// invoke calls the evaluator, turning a panic into a CodeError so the window
// closes normally and the failure reaches the transcript.
func (e *DefaultExecutor) invoke(ctx context.Context, source string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &CodeError{Message: fmt.Sprint(r)}
		}
	}()
	return e.cfg.Evaluator.Evaluate(ctx, source)
}
