// Package capture redirects the page-wide logging surface into a widget's
// log sink for the duration of one execution.
//
// Snippets never write to a widget directly. They call the [Surface], which
// always forwards to the outer platform console and, while a capture window
// is open, mirrors each call into the sink that opened the window. The window
// is released on every exit path of the captured function, including panics.
//
// [Channel] is the always-on companion used by code that runs after the
// window has closed, such as timers and event listeners registered by a
// snippet.
package capture

import (
	"errors"
	"sync"

	"github.com/jonwraymond/playground/console"
)

// ErrWindowOpen is returned when a capture window is requested while another
// one is still open.
var ErrWindowOpen = errors.New("capture window already open")

// Surface is the logging surface shared by everything running on a page.
//
// Contract:
// - Concurrency: safe for concurrent use; at most one window is open at a time.
// - Ownership: sinks passed to WithCapture are referenced only while the
// window is open.
type Surface struct {
	mu     sync.Mutex
	outer  console.Sink
	window console.Sink
}

// NewSurface creates a Surface forwarding to outer, the platform console.
// A nil outer drops forwarded calls.
func NewSurface(outer console.Sink) *Surface {
	if outer == nil {
		outer = console.Discard
	}
	return &Surface{outer: outer}
}

// Append implements console.Sink. Unknown kinds are recorded as log.
func (s *Surface) Append(kind console.Kind, values ...any) {
	if !kind.Valid() {
		kind = console.KindLog
	}
	s.mu.Lock()
	window := s.window
	s.mu.Unlock()

	s.outer.Append(kind, values...)
	if window != nil {
		window.Append(kind, values...)
	}
}

// WithCapture opens a window mirroring into sink, runs thunk and closes the
// window again before returning, whether thunk returns, fails or panics.
// It returns ErrWindowOpen without calling thunk if a window is already open.
func (s *Surface) WithCapture(sink console.Sink, thunk func() error) error {
	if err := s.open(sink); err != nil {
		return err
	}
	defer s.close()
	return thunk()
}

// Capturing reports whether a window is currently open.
func (s *Surface) Capturing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window != nil
}

func (s *Surface) open(sink console.Sink) error {
	if sink == nil {
		sink = console.Discard
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.window != nil {
		return ErrWindowOpen
	}
	s.window = sink
	return nil
}

func (s *Surface) close() {
	s.mu.Lock()
	s.window = nil
	s.mu.Unlock()
}

// Channel is the always-on logging channel. It writes into the sink bound by
// the most recent run and does not depend on an open capture window.
type Channel struct {
	mu     sync.Mutex
	target console.Sink
}

// NewChannel creates an unbound Channel.
func NewChannel() *Channel {
	return &Channel{}
}

// Bind makes sink the destination of subsequent calls.
func (c *Channel) Bind(sink console.Sink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = sink
}

// Append implements console.Sink. Calls made before any Bind are dropped.
func (c *Channel) Append(kind console.Kind, values ...any) {
	c.mu.Lock()
	target := c.target
	c.mu.Unlock()
	if target != nil {
		target.Append(kind, values...)
	}
}

// Log appends a log-kind entry.
func (c *Channel) Log(values ...any) {
	c.Append(console.KindLog, values...)
}
