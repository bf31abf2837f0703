// Package code runs the source text of a lesson playground and routes
// everything it prints into that playground's transcript.
//
// # Architecture
//
// The package defines the run sequence and the capabilities it depends on:
//
//   - [Evaluator]: compiles source text as a zero-argument function body and
//     invokes it synchronously.
//
//   - [Target]: one playground as seen by a run; it supplies the lesson key,
//     the current source, the fixture requirement and the [Output] the run
//     writes into.
//
//   - [Scaffold] and [Scheduler]: the fixture check and the host task queue
//     used when a lesson needs the fixture before it can run.
//
//   - [Executor]: the entry point applying the sequence below.
//
// # Run Sequence
//
// A run requested while a capture window is open fails with
// [ErrRunInProgress] and changes nothing.
//
//  1. Clear the target's output and bind the always-on channel to it.
//  2. If the lesson requires the fixture and it is absent, create it and
//     re-enter the sequence on the next scheduler tick.
//  3. Open the capture window on the shared logging surface.
//  4. Evaluate the source.
//  5. Close the capture window, whatever happened in step 4.
//  6. On failure, append exactly one error entry holding the failure message.
//
// # Execution Limits
//
// [Config].DefaultTimeout interrupts a runaway snippet; the resulting error
// entry wraps [ErrLimitExceeded].
package code
