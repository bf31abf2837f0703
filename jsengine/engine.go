package jsengine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dop251/goja"

	"github.com/jonwraymond/playground/code"
	"github.com/jonwraymond/playground/console"
	"github.com/jonwraymond/playground/dom"
)

// Config configures an Engine.
type Config struct {
	// Host is the page loop the engine lives on. Required.
	Host *Host

	// Console receives console.log/info/warn/error calls. Usually the shared
	// capture surface. Required.
	Console console.Sink

	// Channel receives playgroundLog calls. Optional.
	Channel console.Sink

	// Document is exposed as the document global. Optional.
	Document *dom.Document

	// Uncaught receives errors thrown by event listeners. Defaults to
	// Console.
	Uncaught console.Sink
}

// Engine evaluates snippets on the host loop. It implements code.Evaluator.
type Engine struct {
	host     *Host
	vm       *goja.Runtime
	console  console.Sink
	uncaught console.Sink
	doc      *document
}

var _ code.Evaluator = (*Engine)(nil)

// New installs the page globals into the host's runtime.
func New(cfg Config) (*Engine, error) {
	if cfg.Host == nil {
		return nil, fmt.Errorf("%w: Host is required", code.ErrConfiguration)
	}
	if cfg.Console == nil {
		return nil, fmt.Errorf("%w: Console is required", code.ErrConfiguration)
	}
	if cfg.Uncaught == nil {
		cfg.Uncaught = cfg.Console
	}

	e := &Engine{host: cfg.Host, console: cfg.Console, uncaught: cfg.Uncaught}
	var setupErr error
	err := cfg.Host.Do(func(vm *goja.Runtime) {
		e.vm = vm
		setupErr = e.install(vm, cfg)
	})
	if err != nil {
		return nil, err
	}
	if setupErr != nil {
		return nil, setupErr
	}
	return e, nil
}

func (e *Engine) install(vm *goja.Runtime, cfg Config) error {
	con := vm.NewObject()
	for _, kind := range console.Kinds {
		if err := con.Set(string(kind), e.logFunc(cfg.Console, kind)); err != nil {
			return err
		}
	}
	if err := vm.Set("console", con); err != nil {
		return err
	}

	channel := cfg.Channel
	if channel == nil {
		channel = console.Discard
	}
	if err := vm.Set("playgroundLog", e.logFunc(channel, console.KindLog)); err != nil {
		return err
	}
	if err := vm.Set("window", vm.GlobalObject()); err != nil {
		return err
	}

	if cfg.Document != nil {
		e.doc = newDocument(vm, cfg.Document, e.reportUncaught)
		if err := vm.Set("document", e.doc.object()); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) logFunc(sink console.Sink, kind console.Kind) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		sink.Append(kind, exportArgs(e.vm, call.Arguments)...)
		return goja.Undefined()
	}
}

func (e *Engine) reportUncaught(err error) {
	e.uncaught.Append(console.KindError, "Uncaught", code.FailureMessage(mapError(context.Background(), err)))
}

// Host returns the loop the engine runs on.
func (e *Engine) Host() *Host { return e.host }

// The snippet is wrapped the way the Function constructor wraps its body.
// The prefix adds exactly one line, which snippetPosition takes back off.
const (
	snippetFile   = "snippet.js"
	snippetPrefix = "(function anonymous() {\n"
	snippetSuffix = "\n})"
)

// Evaluate compiles source as the body of a zero-argument function, the way
// the Function constructor does, and calls it with an undefined receiver.
// It must be called on the host loop. Cancelling ctx interrupts the snippet.
func (e *Engine) Evaluate(ctx context.Context, source string) error {
	vm := e.vm
	if err := ctx.Err(); err != nil {
		return &code.CodeError{Message: "execution interrupted", Err: err}
	}

	if ctx.Done() != nil {
		done := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case <-ctx.Done():
				vm.Interrupt(ctx.Err())
			case <-done:
			}
		}()
		defer func() {
			close(done)
			wg.Wait()
			vm.ClearInterrupt()
		}()
	}

	return mapError(ctx, e.call(vm, source))
}

func (e *Engine) call(vm *goja.Runtime, source string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok {
				err = rerr
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()

	prg, err := goja.Compile(snippetFile, snippetPrefix+source+snippetSuffix, false)
	if err != nil {
		return err
	}
	obj, err := vm.RunProgram(prg)
	if err != nil {
		return err
	}
	fn, ok := goja.AssertFunction(obj)
	if !ok {
		return errors.New("compiled snippet is not callable")
	}
	_, err = fn(goja.Undefined())
	return err
}
