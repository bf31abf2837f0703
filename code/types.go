package code

import (
	"time"

	"github.com/jonwraymond/playground/console"
)

// State is the run state of one playground.
type State int

// Run states. Reset moves a playground from any state back to StateIdle.
const (
	StateIdle State = iota
	StatePendingScaffold
	StateRunning
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePendingScaffold:
		return "pending-scaffold"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Output is the transcript a run writes into.
type Output interface {
	console.Sink

	// Clear discards every entry.
	Clear()

	// Len returns the number of entries.
	Len() int
}

// Target is one playground as seen by a run.
//
// Contract:
// - Concurrency: accessed from the host loop only.
// - Ownership: the Output belongs to the target; the executor only appends
// to and clears it.
type Target interface {
	// Key returns the lesson key.
	Key() string

	// Source returns the current editor text.
	Source() string

	// RequiresFixture reports whether the lesson needs the page fixture.
	RequiresFixture() bool

	// Output returns the target's transcript.
	Output() Output

	// SetState records a state transition.
	SetState(State)
}

// RunResult describes the outcome of one Run call.
type RunResult struct {
	// Key is the lesson key of the target.
	Key string `json:"key"`

	// Deferred is true when the run was re-queued behind fixture creation.
	// The deferred continuation performs the evaluation later.
	Deferred bool `json:"deferred,omitempty"`

	// Entries is the number of transcript entries after the run, including
	// the failure entry if any.
	Entries int `json:"entries"`

	// Err is the snippet failure, already rendered into the transcript.
	Err error `json:"-"`

	// Duration is the time spent evaluating.
	Duration time.Duration `json:"duration"`
}
