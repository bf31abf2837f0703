// Package jsengine evaluates playground snippets with an embedded ECMAScript
// engine.
//
// A [Host] owns the page's single event loop. Every piece of page work runs
// on it: visitor actions submitted with [Host.Do], deferred continuations
// queued with [Host.Post], and the timers and event listeners snippets
// register. An [Engine] installs the page globals (console, playgroundLog,
// document, window) into the loop's runtime and implements code.Evaluator.
package jsengine

import (
	"errors"
	"sync"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/eventloop"
)

// ErrNotRunning is returned when work is submitted to a host that has not
// been started or has been stopped.
var ErrNotRunning = errors.New("host loop not running")

// Host runs page work on one event loop goroutine.
//
// Contract:
// - Concurrency: Do and Post are safe for concurrent use. Do must not be
// called from the loop goroutine itself.
// - Errors: a panic inside Do is re-raised in the calling goroutine.
type Host struct {
	loop *eventloop.EventLoop

	mu      sync.Mutex
	running bool
}

// NewHost creates a stopped host. The loop's own console module is disabled;
// Engine installs the page console instead.
func NewHost() *Host {
	return &Host{loop: eventloop.NewEventLoop(eventloop.EnableConsole(false))}
}

// Start runs the loop in a background goroutine.
func (h *Host) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return
	}
	h.loop.Start()
	h.running = true
}

// Stop halts the loop. Pending timers are dropped.
func (h *Host) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()
	h.loop.Stop()
}

// Running reports whether the loop accepts work.
func (h *Host) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running
}

// Do runs fn on the loop and waits for it to return.
func (h *Host) Do(fn func(vm *goja.Runtime)) error {
	if !h.Running() {
		return ErrNotRunning
	}
	done := make(chan struct{})
	var recovered any
	h.loop.RunOnLoop(func(vm *goja.Runtime) {
		defer close(done)
		defer func() { recovered = recover() }()
		fn(vm)
	})
	<-done
	if recovered != nil {
		panic(recovered)
	}
	return nil
}

// Post queues fn to run on the loop after the current task. It implements
// code.Scheduler. Work posted to a stopped host is dropped.
func (h *Host) Post(fn func()) {
	if !h.Running() {
		return
	}
	h.loop.RunOnLoop(func(*goja.Runtime) { fn() })
}
