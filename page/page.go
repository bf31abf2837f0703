// Package page assembles the lesson page: the document, the page loop, the
// shared console surface, the fixture coordinator, the executor and one
// widget per playground block.
//
// Every method that touches the page submits its work to the page loop and
// waits for it, so a Page may be driven from any goroutine except the loop
// itself (event listeners and snippets must not call back into it).
package page

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dop251/goja"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jonwraymond/playground/capture"
	"github.com/jonwraymond/playground/code"
	"github.com/jonwraymond/playground/console"
	"github.com/jonwraymond/playground/dom"
	"github.com/jonwraymond/playground/jsengine"
	"github.com/jonwraymond/playground/scaffold"
	"github.com/jonwraymond/playground/widget"
)

// ErrUnknownPlayground is returned for a key no playground block carries.
var ErrUnknownPlayground = errors.New("page: unknown playground")

// Page is a loaded lesson page.
type Page struct {
	opts    Options
	host    *jsengine.Host
	doc     *dom.Document
	surface *capture.Surface
	channel *capture.Channel
	coord   *scaffold.Coordinator
	exec    *code.DefaultExecutor

	playgrounds []*playground
	byKey       map[string]*playground
}

type playground struct {
	widget  *widget.Widget
	editor  *html.Node
	content *html.Node
}

// New parses the markup, starts the page loop and mounts every
// [data-playground] block.
func New(opts Options) (*Page, error) {
	opts.applyDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	doc, err := dom.ParseString(opts.Markup)
	if err != nil {
		return nil, err
	}

	p := &Page{
		opts:    opts,
		host:    jsengine.NewHost(),
		doc:     doc,
		surface: capture.NewSurface(opts.Console),
		channel: capture.NewChannel(),
		byKey:   make(map[string]*playground),
	}
	p.host.Start()

	if err := p.assemble(); err != nil {
		p.host.Stop()
		return nil, err
	}
	return p, nil
}

func (p *Page) assemble() error {
	engine, err := jsengine.New(jsengine.Config{
		Host:     p.host,
		Console:  p.surface,
		Channel:  p.channel,
		Document: p.doc,
		Uncaught: p.opts.Console,
	})
	if err != nil {
		return err
	}

	viewport := p.opts.Viewport
	p.coord, err = scaffold.New(scaffold.Config{
		Document:    p.doc,
		Storage:     p.opts.Storage,
		Viewport:    func() scaffold.Size { return viewport },
		FixtureSize: p.opts.FixtureSize,
		Logger:      p.opts.SLogger,
	})
	if err != nil {
		return err
	}

	p.exec, err = code.NewDefaultExecutor(code.Config{
		Evaluator:      engine,
		Surface:        p.surface,
		Channel:        p.channel,
		Scaffold:       p.coord,
		Scheduler:      p.host,
		DefaultTimeout: p.opts.Timeout,
		Logger:         p.opts.Logger,
	})
	if err != nil {
		return err
	}

	var mountErr error
	if err := p.host.Do(func(*goja.Runtime) {
		p.coord.Init()
		mountErr = p.mount()
	}); err != nil {
		return err
	}
	return mountErr
}

// mount creates a widget for each playground block and wires its controls.
func (p *Page) mount() error {
	blocks, err := p.doc.QuerySelectorAll("[data-playground]")
	if err != nil {
		return err
	}
	for _, block := range blocks {
		key, _ := dom.Attr(block, "data-playground")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		pg := &playground{}
		pg.editor, _ = dom.QuerySelector(block, ".code-editor")
		pg.content, _ = dom.QuerySelector(block, ".console-content")

		var regions multiRegion
		if pg.content != nil {
			regions = append(regions, elementRegion{node: pg.content})
		}
		if p.opts.Region != nil {
			if r := p.opts.Region(key); r != nil {
				regions = append(regions, r)
			}
		}

		pg.widget, err = widget.New(widget.Config{
			Key:      key,
			Registry: p.opts.Registry,
			Executor: p.exec,
			Region:   regions,
		})
		if err != nil {
			return fmt.Errorf("mount %q: %w", key, err)
		}
		pg.showSource()
		p.wire(block, pg)

		p.playgrounds = append(p.playgrounds, pg)
		if _, dup := p.byKey[key]; !dup {
			p.byKey[key] = pg
		}
	}
	return nil
}

func (p *Page) wire(block *html.Node, pg *playground) {
	on := func(sel, typ string, fn dom.Listener) {
		if n, _ := dom.QuerySelector(block, sel); n != nil {
			p.doc.AddEventListener(n, typ, fn)
		}
	}
	on(".run-btn", "click", func(*dom.Event) { p.runOnLoop(pg) })
	on(".reset-btn", "click", func(*dom.Event) {
		pg.widget.Reset()
		pg.showSource()
	})
	on(".console-clear", "click", func(*dom.Event) { pg.widget.Clear() })
	if pg.editor == nil {
		return
	}
	p.doc.AddEventListener(pg.editor, "input", func(*dom.Event) {
		pg.widget.Edit(dom.TextContent(pg.editor))
	})
	p.doc.AddEventListener(pg.editor, "keydown", func(ev *dom.Event) {
		k := widget.Key{Name: ev.Key, Ctrl: ev.CtrlKey, Meta: ev.MetaKey}
		if !k.IsRunShortcut() {
			return
		}
		ev.PreventDefault()
		p.runOnLoop(pg)
	})
}

func (p *Page) runOnLoop(pg *playground) {
	if _, err := pg.widget.Run(context.Background()); err != nil && p.opts.Logger != nil {
		p.opts.Logger.Logf("run %s: %v", pg.widget.Key(), err)
	}
}

func (pg *playground) showSource() {
	if pg.editor != nil {
		dom.SetTextContent(pg.editor, pg.widget.Source())
	}
}

// Close stops the page loop. Pending timers and deferred runs are dropped.
func (p *Page) Close() {
	p.host.Stop()
}

// Widgets returns every mounted widget in page order.
func (p *Page) Widgets() []*widget.Widget {
	out := make([]*widget.Widget, len(p.playgrounds))
	for i, pg := range p.playgrounds {
		out[i] = pg.widget
	}
	return out
}

// Widget returns the first widget mounted for key.
func (p *Page) Widget(key string) (*widget.Widget, bool) {
	pg, ok := p.byKey[key]
	if !ok {
		return nil, false
	}
	return pg.widget, true
}

func (p *Page) lookup(key string) (*playground, error) {
	pg, ok := p.byKey[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlayground, key)
	}
	return pg, nil
}

// Run runs the widget for key, as pressing its Run button does. A lesson
// that needs the fixture comes back Deferred; call Sync to wait for the
// continuation.
func (p *Page) Run(ctx context.Context, key string) (code.RunResult, error) {
	pg, err := p.lookup(key)
	if err != nil {
		return code.RunResult{}, err
	}
	var (
		res    code.RunResult
		runErr error
	)
	if err := p.host.Do(func(*goja.Runtime) {
		res, runErr = pg.widget.Run(ctx)
	}); err != nil {
		return code.RunResult{}, err
	}
	return res, runErr
}

// Edit replaces the editor text of the widget for key.
func (p *Page) Edit(key, source string) error {
	pg, err := p.lookup(key)
	if err != nil {
		return err
	}
	return p.host.Do(func(*goja.Runtime) {
		if pg.editor == nil {
			pg.widget.Edit(source)
			return
		}
		dom.SetTextContent(pg.editor, source)
		p.doc.Dispatch(pg.editor, &dom.Event{Type: "input"})
	})
}

// Reset restores the default source of the widget for key and clears its
// output.
func (p *Page) Reset(key string) error {
	pg, err := p.lookup(key)
	if err != nil {
		return err
	}
	return p.host.Do(func(*goja.Runtime) {
		pg.widget.Reset()
		pg.showSource()
	})
}

// Clear empties the output of the widget for key.
func (p *Page) Clear(key string) error {
	pg, err := p.lookup(key)
	if err != nil {
		return err
	}
	return p.host.Do(func(*goja.Runtime) { pg.widget.Clear() })
}

// Press delivers a key press to the editor of the widget for key. It reports
// whether the key was consumed as the run shortcut.
func (p *Page) Press(key string, k widget.Key) (bool, error) {
	pg, err := p.lookup(key)
	if err != nil {
		return false, err
	}
	var consumed bool
	err = p.host.Do(func(*goja.Runtime) {
		if pg.editor == nil {
			consumed, _ = pg.widget.HandleKey(context.Background(), k)
			return
		}
		ev := &dom.Event{Type: "keydown", Key: k.Name, CtrlKey: k.Ctrl, MetaKey: k.Meta}
		consumed = !p.doc.Dispatch(pg.editor, ev)
	})
	return consumed, err
}

// Sync waits until every piece of work queued on the loop before the call,
// deferred runs included, has finished.
func (p *Page) Sync() error {
	return p.host.Do(func(*goja.Runtime) {})
}

// Click dispatches a click on the first element matching sel. It reports
// whether an element matched.
func (p *Page) Click(sel string) (bool, error) {
	var (
		found  bool
		selErr error
	)
	err := p.host.Do(func(*goja.Runtime) {
		var n *html.Node
		n, selErr = p.doc.QuerySelector(sel)
		if n == nil {
			return
		}
		found = true
		p.doc.Dispatch(n, &dom.Event{Type: "click"})
	})
	if err != nil {
		return false, err
	}
	return found, selErr
}

// KeyDown dispatches a keydown event for key at the document body.
func (p *Page) KeyDown(key string) error {
	return p.host.Do(func(*goja.Runtime) {
		target := p.doc.Body()
		if target == nil {
			target = p.doc.Root()
		}
		p.doc.Dispatch(target, &dom.Event{Type: "keydown", Key: key})
	})
}

// GenerateFixture presses the generator button. It reports whether the
// fixture exists afterwards.
func (p *Page) GenerateFixture() (bool, error) {
	var exists bool
	err := p.host.Do(func(*goja.Runtime) {
		if btn := p.doc.GetElementByID(scaffold.DefaultGeneratorID); btn != nil {
			p.doc.Dispatch(btn, &dom.Event{Type: "click"})
		} else {
			p.coord.Generate()
		}
		exists = p.coord.FixtureExists()
	})
	return exists, err
}

// FixtureView is a snapshot of the fixture.
type FixtureView struct {
	Exists    bool
	Minimized bool
	Position  scaffold.Point
	HTML      string
}

// Fixture returns a snapshot of the fixture.
func (p *Page) Fixture() (FixtureView, error) {
	var v FixtureView
	err := p.host.Do(func(*goja.Runtime) {
		f := p.coord.Fixture()
		if f == nil {
			return
		}
		v = FixtureView{
			Exists:    true,
			Minimized: f.Minimized(),
			Position:  f.Position(),
			HTML:      dom.Render(f.Wrapper()),
		}
	})
	return v, err
}

// MoveFixture drags the fixture by a relative offset.
func (p *Page) MoveFixture(dx, dy float64) error {
	return p.host.Do(func(*goja.Runtime) {
		if f := p.coord.Fixture(); f != nil {
			f.MoveBy(dx, dy)
		}
	})
}

// ToggleFixture minimizes or expands the fixture.
func (p *Page) ToggleFixture() error {
	return p.host.Do(func(*goja.Runtime) {
		if f := p.coord.Fixture(); f != nil {
			f.ToggleMinimized()
		}
	})
}

// Inspect runs fn on the loop with the document.
func (p *Page) Inspect(fn func(doc *dom.Document)) error {
	return p.host.Do(func(*goja.Runtime) { fn(p.doc) })
}

// Log writes to the page console the way page code outside a run would.
func (p *Page) Log(kind console.Kind, values ...any) {
	p.surface.Append(kind, values...)
}

// elementRegion renders lines as children of a page element.
type elementRegion struct {
	node *html.Node
}

func (r elementRegion) AppendLine(kind console.Kind, text string) {
	line := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	dom.SetAttr(line, "class", "console-line console-"+string(kind))
	dom.SetTextContent(line, text)
	r.node.AppendChild(line)
}

func (r elementRegion) Clear() {
	for c := r.node.FirstChild; c != nil; c = r.node.FirstChild {
		r.node.RemoveChild(c)
	}
}

// ScrollToBottom records the index of the newest line in data-scroll-line.
func (r elementRegion) ScrollToBottom() {
	n := len(dom.Children(r.node))
	if n == 0 {
		return
	}
	dom.SetAttr(r.node, "data-scroll-line", strconv.Itoa(n-1))
}

type multiRegion []console.Region

func (m multiRegion) AppendLine(kind console.Kind, text string) {
	for _, r := range m {
		r.AppendLine(kind, text)
	}
}

func (m multiRegion) Clear() {
	for _, r := range m {
		r.Clear()
	}
}

func (m multiRegion) ScrollToBottom() {
	for _, r := range m {
		r.ScrollToBottom()
	}
}
