// Package widget binds one lesson playground's editor text, controls and
// transcript to the executor.
//
// Each Widget owns its source, transcript, output region and state. Nothing
// is shared between widgets except the logging surface the executor opens
// around each evaluation.
package widget

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jonwraymond/playground/code"
	"github.com/jonwraymond/playground/console"
	"github.com/jonwraymond/playground/snippet"
)

// Config configures a Widget.
type Config struct {
	// Key is the lesson key, usually taken from the block's
	// data-playground attribute. Required.
	Key string

	// Registry supplies the default source. Defaults to snippet.Default().
	Registry *snippet.Registry

	// Executor runs the widget. Required.
	Executor code.Executor

	// Region renders the transcript. Optional.
	Region console.Region
}

// Widget is one playground instance.
//
// Contract:
// - Concurrency: Run, Reset, Clear and Edit are expected on the page loop;
// accessors are safe to call from any goroutine.
type Widget struct {
	id       string
	key      string
	registry *snippet.Registry
	exec     code.Executor
	sink     *console.LogSink

	mu     sync.Mutex
	source string
	state  code.State
}

var _ code.Target = (*Widget)(nil)

// New creates a widget and resets it to its lesson's default source.
func New(cfg Config) (*Widget, error) {
	if strings.TrimSpace(cfg.Key) == "" {
		return nil, fmt.Errorf("%w: widget key is required", code.ErrConfiguration)
	}
	if cfg.Executor == nil {
		return nil, fmt.Errorf("%w: widget executor is required", code.ErrConfiguration)
	}
	if cfg.Registry == nil {
		cfg.Registry = snippet.Default()
	}
	w := &Widget{
		id:       uuid.NewString(),
		key:      cfg.Key,
		registry: cfg.Registry,
		exec:     cfg.Executor,
		sink:     console.NewLogSink(cfg.Region),
	}
	w.Reset()
	return w, nil
}

// ID returns the widget's instance id.
func (w *Widget) ID() string { return w.id }

// Key implements code.Target.
func (w *Widget) Key() string { return w.key }

// Title returns the lesson title.
func (w *Widget) Title() string {
	if l, ok := w.registry.Lesson(w.key); ok && l.Title != "" {
		return l.Title
	}
	return snippet.TitleFromKey(w.key)
}

// Source implements code.Target.
func (w *Widget) Source() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.source
}

// Edit replaces the editor text.
func (w *Widget) Edit(source string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.source = source
}

// RequiresFixture implements code.Target.
func (w *Widget) RequiresFixture() bool {
	return w.registry.RequiresFixture(w.key)
}

// Output implements code.Target.
func (w *Widget) Output() code.Output { return w.sink }

// SetState implements code.Target.
func (w *Widget) SetState(s code.State) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = s
}

// State returns the current run state.
func (w *Widget) State() code.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Transcript returns a snapshot of the widget's entries.
func (w *Widget) Transcript() console.Transcript {
	return w.sink.Transcript()
}

// Reset restores the lesson's default source, clears the transcript and
// returns the widget to idle.
func (w *Widget) Reset() {
	w.sink.Clear()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.source = w.registry.Get(w.key)
	w.state = code.StateIdle
}

// Clear discards the transcript and leaves the source alone.
func (w *Widget) Clear() {
	w.sink.Clear()
}

// Run executes the current source.
func (w *Widget) Run(ctx context.Context) (code.RunResult, error) {
	return w.exec.Run(ctx, w)
}

// Key is a key press delivered to the editor.
type Key struct {
	Name string
	Ctrl bool
	Meta bool
}

// IsRunShortcut reports whether k is Ctrl+Enter or Meta+Enter.
func (k Key) IsRunShortcut() bool {
	return (k.Ctrl || k.Meta) && strings.EqualFold(k.Name, "enter")
}

// HandleKey runs the widget on the run shortcut and reports whether the key
// was consumed.
func (w *Widget) HandleKey(ctx context.Context, k Key) (bool, error) {
	if !k.IsRunShortcut() {
		return false, nil
	}
	_, err := w.Run(ctx)
	return true, err
}
