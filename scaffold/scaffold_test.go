package scaffold

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/jonwraymond/playground/dom"
	"github.com/jonwraymond/playground/storage"
)

const fixturePage = `<!DOCTYPE html>
<html><body>
<div class="mini-website-actions"><button id="mini-website-generate-btn" class="btn">Generate Mini Website</button></div>
<template id="mini-website-template">
<div id="mini-website-wrapper" class="mini-website-wrapper">
  <div class="demo-header"><span>Mini Website</span><button class="demo-close" title="Minimize">−</button></div>
  <div id="mini-website" aria-expanded="true">
    <div class="mini-website-content"><h2 id="site-title">Welcome</h2></div>
  </div>
</div>
</template>
</body></html>`

func newCoordinator(t *testing.T, page string, cfg Config) (*Coordinator, *dom.Document) {
	t.Helper()
	doc, err := dom.ParseString(page)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg.Document = doc
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, doc
}

func TestNew_RequiresDocument(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error without Document")
	}
}

func TestEnsureFixture_CreatesOnce(t *testing.T) {
	c, doc := newCoordinator(t, fixturePage, Config{})

	if c.FixtureExists() {
		t.Fatal("fixture should not exist before EnsureFixture")
	}
	first := c.EnsureFixture()
	if first == nil {
		t.Fatal("expected a fixture")
	}
	second := c.EnsureFixture()
	if second != first {
		t.Error("EnsureFixture should return the existing fixture")
	}

	wrappers, _ := doc.QuerySelectorAll("#mini-website-wrapper")
	if len(wrappers) != 1 {
		t.Errorf("expected 1 wrapper, got %d", len(wrappers))
	}
	if !first.Wired() {
		t.Error("fixture should be wired")
	}
	if !c.GeneratorDisabled() {
		t.Error("generator should be disabled once the fixture exists")
	}
}

func TestEnsureFixture_WiresOnce(t *testing.T) {
	c, doc := newCoordinator(t, fixturePage, Config{})
	f := c.EnsureFixture()
	c.EnsureFixture()
	c.Fixture()

	header, _ := dom.QuerySelector(f.Wrapper(), ".demo-header")
	if got := doc.ListenerCount(header); got != 1 {
		t.Errorf("header listeners = %d, want 1", got)
	}
	if got := doc.ListenerCount(doc.Root()); got != 2 {
		t.Errorf("document listeners = %d, want 2", got)
	}
}

func TestEnsureFixture_NoTemplate(t *testing.T) {
	c, _ := newCoordinator(t, `<html><body><p>nothing</p></body></html>`, Config{})
	if f := c.EnsureFixture(); f != nil {
		t.Fatal("expected nil without a template")
	}
	if c.SpawnFixture() {
		t.Error("SpawnFixture should report failure without a template")
	}
	if c.FixtureExists() {
		t.Error("no fixture should exist")
	}
}

func TestDisableGenerator(t *testing.T) {
	c, doc := newCoordinator(t, fixturePage, Config{})
	c.DisableGenerator()

	btn := doc.GetElementByID(DefaultGeneratorID)
	if !dom.HasAttr(btn, "disabled") {
		t.Error("expected disabled attribute")
	}
	if !dom.HasClass(btn, "is-disabled") {
		t.Error("expected is-disabled class")
	}
	if v, _ := dom.Attr(btn, "aria-disabled"); v != "true" {
		t.Errorf("aria-disabled = %q", v)
	}
	if got := dom.TextContent(btn); got != GeneratorReadyLabel {
		t.Errorf("label = %q", got)
	}
}

func TestInit_GeneratorClick(t *testing.T) {
	c, doc := newCoordinator(t, fixturePage, Config{})
	c.Init()

	btn := doc.GetElementByID(DefaultGeneratorID)
	doc.Dispatch(btn, &dom.Event{Type: "click"})
	if !c.FixtureExists() {
		t.Fatal("clicking the generator should create the fixture")
	}

	doc.Dispatch(btn, &dom.Event{Type: "click"})
	wrappers, _ := doc.QuerySelectorAll("#mini-website-wrapper")
	if len(wrappers) != 1 {
		t.Errorf("expected 1 wrapper after a second click, got %d", len(wrappers))
	}
}

func TestInit_ExistingFixture(t *testing.T) {
	page := strings.Replace(fixturePage, "</body>",
		`<div id="mini-website-wrapper"><div class="demo-header"></div><div id="mini-website"></div></div></body>`, 1)
	c, doc := newCoordinator(t, page, Config{})
	c.Init()

	if !c.GeneratorDisabled() {
		t.Error("generator should be disabled when the fixture is in the markup")
	}
	if v, _ := dom.Attr(doc.GetElementByID(DefaultWrapperID), "data-initialized"); v != "true" {
		t.Error("existing fixture should be wired")
	}
}

func TestGenerate_DisabledIsNoop(t *testing.T) {
	c, _ := newCoordinator(t, fixturePage, Config{})
	c.DisableGenerator()
	if c.Generate() {
		t.Fatal("Generate should do nothing while disabled")
	}
	if c.FixtureExists() {
		t.Error("no fixture should be created")
	}
}

func TestFixture_Drag(t *testing.T) {
	store := storage.NewMemory()
	c, doc := newCoordinator(t, fixturePage, Config{Storage: store})
	f := c.EnsureFixture()

	header, _ := dom.QuerySelector(f.Wrapper(), ".demo-header")
	doc.Dispatch(header, &dom.Event{Type: "mousedown", ClientX: 10, ClientY: 10})
	doc.Dispatch(doc.Root(), &dom.Event{Type: "mousemove", ClientX: 110, ClientY: 60})
	doc.Dispatch(doc.Root(), &dom.Event{Type: "mouseup"})

	if got := f.Position(); got != (Point{X: 100, Y: 50}) {
		t.Errorf("Position = %+v", got)
	}
	if got := dom.StyleProperty(f.Wrapper(), "left"); got != "100px" {
		t.Errorf("left = %q", got)
	}
	if got := dom.StyleProperty(f.Wrapper(), "right"); got != "auto" {
		t.Errorf("right = %q", got)
	}
	saved, ok, _ := store.GetItem(PositionKey)
	if !ok || saved != `{"x":100,"y":50}` {
		t.Errorf("saved = %q (%v)", saved, ok)
	}
}

func TestFixture_DragIgnoresCloseButton(t *testing.T) {
	c, _ := newCoordinator(t, fixturePage, Config{})
	f := c.EnsureFixture()
	closeBtn, _ := dom.QuerySelector(f.Wrapper(), ".demo-close")
	if f.BeginDrag(closeBtn, Point{}) {
		t.Error("pressing the minimize button should not start a drag")
	}
}

func TestFixture_MoveBy(t *testing.T) {
	c, _ := newCoordinator(t, fixturePage, Config{})
	f := c.EnsureFixture()
	f.MoveBy(30, 40)
	f.MoveBy(-10, 0)
	if got := f.Position(); got != (Point{X: 20, Y: 40}) {
		t.Errorf("Position = %+v", got)
	}
}

func TestFixture_ToggleMinimized(t *testing.T) {
	c, doc := newCoordinator(t, fixturePage, Config{})
	f := c.EnsureFixture()
	closeBtn, _ := dom.QuerySelector(f.Wrapper(), ".demo-close")
	content, _ := dom.QuerySelector(f.Wrapper(), ".mini-website-content")

	doc.Dispatch(closeBtn, &dom.Event{Type: "click"})
	if !f.Minimized() || !dom.HasClass(f.Site(), "is-minimized") {
		t.Fatal("expected minimized")
	}
	if !dom.HasAttr(content, "hidden") {
		t.Error("content should be hidden")
	}
	if dom.TextContent(closeBtn) != "+" {
		t.Errorf("button text = %q", dom.TextContent(closeBtn))
	}
	if v, _ := dom.Attr(closeBtn, "aria-label"); v != "Expand mini website" {
		t.Errorf("aria-label = %q", v)
	}

	f.ToggleMinimized()
	if f.Minimized() || dom.HasAttr(content, "hidden") {
		t.Error("expected expanded")
	}
	if v, _ := dom.Attr(f.Site(), "aria-expanded"); v != "true" {
		t.Errorf("aria-expanded = %q", v)
	}
}

func TestFixture_RestoresClampedPosition(t *testing.T) {
	store := storage.NewMemory()
	_ = store.SetItem(PositionKey, `{"x":5000,"y":-30}`)
	c, _ := newCoordinator(t, fixturePage, Config{
		Storage:     store,
		Viewport:    func() Size { return Size{Width: 800, Height: 600} },
		FixtureSize: Size{Width: 300, Height: 200},
	})
	f := c.EnsureFixture()

	want := Point{X: 480, Y: 0}
	if got := f.Position(); got != want {
		t.Errorf("Position = %+v, want %+v", got, want)
	}
	saved, _, _ := store.GetItem(PositionKey)
	if saved != `{"x":480,"y":0}` {
		t.Errorf("clamped position not rewritten: %q", saved)
	}
}

func TestFixture_IgnoresBadStoredPosition(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		warn bool
	}{
		{name: "not json", raw: "{oops", warn: true},
		{name: "missing y", raw: `{"x":10}`},
		{name: "string coords", raw: `{"x":"a","y":"b"}`, warn: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			store := storage.NewMemory()
			_ = store.SetItem(PositionKey, tt.raw)
			c, _ := newCoordinator(t, fixturePage, Config{
				Storage: store,
				Logger:  slog.New(slog.NewTextHandler(&buf, nil)),
			})
			f := c.EnsureFixture()
			if f.Position() != (Point{}) {
				t.Errorf("Position = %+v, want zero", f.Position())
			}
			if got := strings.Contains(buf.String(), "level=WARN"); got != tt.warn {
				t.Errorf("warned = %v, want %v: %s", got, tt.warn, buf.String())
			}
		})
	}
}

type failingStore struct{}

func (failingStore) GetItem(string) (string, bool, error) { return "", false, errors.New("denied") }
func (failingStore) SetItem(string, string) error         { return errors.New("denied") }
func (failingStore) RemoveItem(string) error              { return errors.New("denied") }

func TestFixture_StorageFailuresAreLogged(t *testing.T) {
	var buf bytes.Buffer
	c, _ := newCoordinator(t, fixturePage, Config{
		Storage: failingStore{},
		Logger:  slog.New(slog.NewTextHandler(&buf, nil)),
	})
	f := c.EnsureFixture()
	if f == nil {
		t.Fatal("fixture should still be created")
	}
	f.MoveBy(5, 5)
	if got := strings.Count(buf.String(), "level=WARN"); got != 2 {
		t.Errorf("expected 2 warnings, got %d: %s", got, buf.String())
	}
}
