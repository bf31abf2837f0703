package widget

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/jonwraymond/playground/capture"
	"github.com/jonwraymond/playground/code"
	"github.com/jonwraymond/playground/console"
	"github.com/jonwraymond/playground/snippet"
)

// echoEvaluator logs each non-empty source line; a line "throw X" fails.
type echoEvaluator struct{ surface console.Sink }

func (e echoEvaluator) Evaluate(_ context.Context, source string) error {
	for _, line := range strings.Split(source, "\n") {
		if msg, ok := strings.CutPrefix(line, "throw "); ok {
			return &code.CodeError{Message: msg}
		}
		if line != "" {
			e.surface.Append(console.KindLog, line)
		}
	}
	return nil
}

func newRegistry(t *testing.T) *snippet.Registry {
	t.Helper()
	reg, err := snippet.New(
		snippet.Lesson{Key: "printing", Title: "Printing", Source: "hello\nworld"},
		snippet.Lesson{Key: "loops", Source: "one"},
	)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return reg
}

func newExecutor(t *testing.T) (code.Executor, *capture.Surface) {
	t.Helper()
	surface := capture.NewSurface(nil)
	exec, err := code.NewDefaultExecutor(code.Config{
		Evaluator: echoEvaluator{surface: surface},
		Surface:   surface,
	})
	if err != nil {
		t.Fatalf("executor: %v", err)
	}
	return exec, surface
}

func newWidget(t *testing.T, key string, exec code.Executor, region console.Region) *Widget {
	t.Helper()
	w, err := New(Config{Key: key, Registry: newRegistry(t), Executor: exec, Region: region})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w
}

func TestNew_Validation(t *testing.T) {
	exec, _ := newExecutor(t)
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "missing key", cfg: Config{Executor: exec}},
		{name: "missing executor", cfg: Config{Key: "printing"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); !errors.Is(err, code.ErrConfiguration) {
				t.Errorf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestNew_StartsReset(t *testing.T) {
	exec, _ := newExecutor(t)
	w := newWidget(t, "printing", exec, nil)
	if w.Source() != "hello\nworld" {
		t.Errorf("Source() = %q", w.Source())
	}
	if w.State() != code.StateIdle {
		t.Errorf("State() = %v", w.State())
	}
	if w.ID() == "" {
		t.Error("expected an instance id")
	}
}

func TestNew_UnknownKeyGetsFallback(t *testing.T) {
	exec, _ := newExecutor(t)
	w := newWidget(t, "nope", exec, nil)
	if w.Source() != snippet.Fallback {
		t.Errorf("Source() = %q", w.Source())
	}
	if w.Title() != "Nope" {
		t.Errorf("Title() = %q", w.Title())
	}
}

func TestRun_RendersIntoRegion(t *testing.T) {
	exec, _ := newExecutor(t)
	region := console.NewBufferRegion()
	w := newWidget(t, "printing", exec, region)

	res, err := w.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Entries != 2 {
		t.Errorf("Entries = %d", res.Entries)
	}
	want := []console.Line{{Kind: console.KindLog, Text: `"hello"`}, {Kind: console.KindLog, Text: `"world"`}}
	if got := region.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("region = %v", got)
	}
	if region.Offset() != 1 {
		t.Errorf("region should be scrolled to the newest line, offset %d", region.Offset())
	}
}

func TestReset_RestoresDefault(t *testing.T) {
	exec, _ := newExecutor(t)
	w := newWidget(t, "printing", exec, nil)

	w.Edit("changed\nthrow boom")
	if _, err := w.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(w.Transcript()) == 0 {
		t.Fatal("expected entries before reset")
	}

	w.Reset()
	if w.Source() != "hello\nworld" {
		t.Errorf("Source() = %q", w.Source())
	}
	if len(w.Transcript()) != 0 {
		t.Errorf("transcript not empty: %v", w.Transcript().Texts())
	}
	if w.State() != code.StateIdle {
		t.Errorf("State() = %v", w.State())
	}
}

func TestClear_KeepsSource(t *testing.T) {
	exec, _ := newExecutor(t)
	w := newWidget(t, "printing", exec, nil)
	w.Edit("edited")
	if _, err := w.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	w.Clear()
	if len(w.Transcript()) != 0 {
		t.Error("Clear should empty the transcript")
	}
	if w.Source() != "edited" {
		t.Errorf("Source() = %q", w.Source())
	}
}

func TestRun_FailureLeavesWidgetUsable(t *testing.T) {
	exec, _ := newExecutor(t)
	w := newWidget(t, "printing", exec, nil)
	w.Edit("throw boom")

	res, err := w.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	got := w.Transcript()
	if len(got) != 1 || got[0].Kind != console.KindError || got[0].Values[0] != "boom" {
		t.Fatalf("transcript = %v", got.Texts())
	}
	if msg := code.FailureMessage(res.Err); msg != "boom" {
		t.Errorf("failure = %q", msg)
	}

	w.Reset()
	if _, err := w.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := w.Transcript().Texts(); !reflect.DeepEqual(got, []string{`"hello"`, `"world"`}) {
		t.Errorf("after recovery = %v", got)
	}
}

func TestWidgets_AreIsolated(t *testing.T) {
	exec, surface := newExecutor(t)
	a := newWidget(t, "printing", exec, nil)
	b := newWidget(t, "loops", exec, nil)

	for _, w := range []*Widget{a, b, a, b} {
		if _, err := w.Run(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if got := a.Transcript().Texts(); !reflect.DeepEqual(got, []string{`"hello"`, `"world"`}) {
		t.Errorf("a = %v", got)
	}
	if got := b.Transcript().Texts(); !reflect.DeepEqual(got, []string{`"one"`}) {
		t.Errorf("b = %v", got)
	}

	surface.Append(console.KindLog, "stray")
	if len(a.Transcript()) != 2 || len(b.Transcript()) != 1 {
		t.Error("surface call after runs was mirrored into a widget")
	}
}

func TestHandleKey(t *testing.T) {
	tests := []struct {
		name    string
		key     Key
		handled bool
	}{
		{name: "ctrl enter", key: Key{Name: "enter", Ctrl: true}, handled: true},
		{name: "meta enter", key: Key{Name: "Enter", Meta: true}, handled: true},
		{name: "plain enter", key: Key{Name: "enter"}},
		{name: "ctrl a", key: Key{Name: "a", Ctrl: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec, _ := newExecutor(t)
			w := newWidget(t, "loops", exec, nil)
			handled, err := w.HandleKey(context.Background(), tt.key)
			if err != nil {
				t.Fatal(err)
			}
			if handled != tt.handled {
				t.Errorf("handled = %v, want %v", handled, tt.handled)
			}
			if ran := len(w.Transcript()) > 0; ran != tt.handled {
				t.Errorf("ran = %v, want %v", ran, tt.handled)
			}
		})
	}
}

func TestRequiresFixture(t *testing.T) {
	exec, _ := newExecutor(t)
	reg, err := snippet.New(snippet.Lesson{Key: "dom-event-delegation", Source: "x", RequiresFixture: true})
	if err != nil {
		t.Fatal(err)
	}
	w, err := New(Config{Key: "dom-event-delegation", Registry: reg, Executor: exec})
	if err != nil {
		t.Fatal(err)
	}
	if !w.RequiresFixture() {
		t.Error("expected RequiresFixture")
	}
}
