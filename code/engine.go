package code

import (
	"context"

	"github.com/jonwraymond/playground/console"
)

// Evaluator compiles source text as the body of a zero-argument function with
// no bindings other than the ambient globals, and invokes it synchronously.
//
// Contract:
// - Concurrency: calls are serialized by the host; implementations need not
// be reentrant.
// - Context: must honor cancellation/deadlines and return an error wrapping
// ctx.Err() when interrupted.
// - Errors: compile and runtime failures should return CodeError so the
// message shown to the visitor is the failure's own message.
type Evaluator interface {
	// Evaluate runs source once.
	Evaluate(ctx context.Context, source string) error
}

// Surface is the shared logging surface snippets print to.
//
// Contract:
// - Concurrency: at most one capture window is open at a time.
// - Errors: WithCapture returns an error without calling thunk if a window
// is already open; otherwise it returns thunk's error.
type Surface interface {
	// WithCapture mirrors every surface call into sink while thunk runs and
	// restores pass-through behaviour on every exit path.
	WithCapture(sink console.Sink, thunk func() error) error

	// Capturing reports whether a window is open.
	Capturing() bool
}

// Channel is the always-on output channel that keeps working after the
// capture window closes.
type Channel interface {
	// Bind makes sink the destination of subsequent channel writes.
	Bind(sink console.Sink)
}

// Scaffold reports on and creates the page fixture some lessons depend on.
//
// Contract:
// - Concurrency: called on the host loop only.
// - Errors: a fixture that cannot be created is reported by SpawnFixture
// returning false, never by panicking.
type Scaffold interface {
	// FixtureExists reports whether the fixture is attached to the page.
	FixtureExists() bool

	// SpawnFixture creates the fixture if needed and disables the generator
	// affordance. It reports whether a fixture is now attached.
	SpawnFixture() bool
}

// Scheduler queues work for the next tick of the host loop.
type Scheduler interface {
	// Post schedules fn to run after the current task completes.
	Post(fn func())
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(fn func())

// Post calls f(fn).
func (f SchedulerFunc) Post(fn func()) { f(fn) }
