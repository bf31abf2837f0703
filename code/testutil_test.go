package code

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jonwraymond/playground/capture"
	"github.com/jonwraymond/playground/console"
)

// scriptEvaluator interprets a tiny line-based language against a surface:
// "log a b", "warn x", "throw msg", "panic msg", "wait".
type scriptEvaluator struct {
	mu      sync.Mutex
	surface console.Sink
	sources []string
}

func (e *scriptEvaluator) Evaluate(ctx context.Context, source string) error {
	e.mu.Lock()
	e.sources = append(e.sources, source)
	e.mu.Unlock()

	for _, line := range strings.Split(source, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		args := make([]any, 0, len(fields)-1)
		for _, f := range fields[1:] {
			args = append(args, f)
		}
		switch fields[0] {
		case "log", "info", "warn", "error":
			e.surface.Append(console.Kind(fields[0]), args...)
		case "throw":
			return &CodeError{Message: strings.Join(fields[1:], " "), Line: 1, Column: 1}
		case "panic":
			panic(strings.Join(fields[1:], " "))
		case "wait":
			<-ctx.Done()
			return fmt.Errorf("%w: interrupted", ctx.Err())
		}
	}
	return nil
}

func (e *scriptEvaluator) calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.sources)
}

type mockTarget struct {
	key     string
	source  string
	fixture bool
	out     *console.LogSink
	states  []State
}

func newTarget(key, source string) *mockTarget {
	return &mockTarget{key: key, source: source, out: console.NewLogSink(nil)}
}

func (t *mockTarget) Key() string           { return t.key }
func (t *mockTarget) Source() string        { return t.source }
func (t *mockTarget) RequiresFixture() bool { return t.fixture }
func (t *mockTarget) Output() Output        { return t.out }
func (t *mockTarget) SetState(s State)      { t.states = append(t.states, s) }

func (t *mockTarget) state() State {
	if len(t.states) == 0 {
		return StateIdle
	}
	return t.states[len(t.states)-1]
}

type mockScaffold struct {
	exists      bool
	canCreate   bool
	spawnCalls  int
	createCalls int
}

func (s *mockScaffold) FixtureExists() bool { return s.exists }

func (s *mockScaffold) SpawnFixture() bool {
	s.spawnCalls++
	if !s.exists && s.canCreate {
		s.exists = true
		s.createCalls++
	}
	return s.exists
}

// queue is a Scheduler that holds posted work until drain is called.
type queue struct {
	tasks []func()
}

func (q *queue) Post(fn func()) { q.tasks = append(q.tasks, fn) }

func (q *queue) drain() {
	for len(q.tasks) > 0 {
		fn := q.tasks[0]
		q.tasks = q.tasks[1:]
		fn()
	}
}

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Logf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

type harness struct {
	outer    *console.LogSink
	surface  *capture.Surface
	channel  *capture.Channel
	eval     *scriptEvaluator
	scaffold *mockScaffold
	queue    *queue
	exec     *DefaultExecutor
}

func newHarness(mod func(*Config)) *harness {
	h := &harness{
		outer:    console.NewLogSink(nil),
		channel:  capture.NewChannel(),
		scaffold: &mockScaffold{canCreate: true},
		queue:    &queue{},
	}
	h.surface = capture.NewSurface(h.outer)
	h.eval = &scriptEvaluator{surface: h.surface}
	cfg := Config{
		Evaluator: h.eval,
		Surface:   h.surface,
		Channel:   h.channel,
		Scaffold:  h.scaffold,
		Scheduler: h.queue,
	}
	if mod != nil {
		mod(&cfg)
	}
	exec, err := NewDefaultExecutor(cfg)
	if err != nil {
		panic(err)
	}
	h.exec = exec
	return h
}
