// Package scaffold makes sure the mini website fixture exists before a lesson
// that depends on it runs.
//
// The fixture is cloned from a template in the page, appended to the body at
// most once and never removed. Wiring (drag to move, minimize/expand, restored
// position) is installed once per fixture, guarded by a data-initialized flag
// on the fixture element itself.
package scaffold

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"golang.org/x/net/html"

	"github.com/jonwraymond/playground/dom"
	"github.com/jonwraymond/playground/storage"
)

// Default element ids and storage key.
const (
	DefaultTemplateID  = "mini-website-template"
	DefaultWrapperID   = "mini-website-wrapper"
	DefaultGeneratorID = "mini-website-generate-btn"
	PositionKey        = "mini-website-position"

	// GeneratorReadyLabel is the generator button text once a fixture exists.
	GeneratorReadyLabel = "Mini Website Ready"

	edgeMargin = 20
)

// Point is a position in viewport pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  float64
	Height float64
}

// Config configures a Coordinator.
type Config struct {
	// Document is the page. Required.
	Document *dom.Document

	// Storage persists the fixture position. Defaults to an in-memory store.
	Storage storage.Local

	// Viewport reports the current viewport size. Defaults to 1280x800.
	Viewport func() Size

	// FixtureSize is the rendered size of the fixture, used when clamping
	// its position. Defaults to 360x420.
	FixtureSize Size

	// TemplateID, WrapperID and GeneratorID override the default element ids.
	TemplateID  string
	WrapperID   string
	GeneratorID string

	// Logger receives storage warnings. Defaults to discarding them.
	Logger *slog.Logger
}

func (c *Config) applyDefaults() {
	if c.Storage == nil {
		c.Storage = storage.NewMemory()
	}
	if c.Viewport == nil {
		c.Viewport = func() Size { return Size{Width: 1280, Height: 800} }
	}
	if c.FixtureSize == (Size{}) {
		c.FixtureSize = Size{Width: 360, Height: 420}
	}
	if c.TemplateID == "" {
		c.TemplateID = DefaultTemplateID
	}
	if c.WrapperID == "" {
		c.WrapperID = DefaultWrapperID
	}
	if c.GeneratorID == "" {
		c.GeneratorID = DefaultGeneratorID
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
}

// Coordinator creates and wires the fixture.
//
// Contract:
// - Concurrency: not safe for concurrent use; confine to the page loop, like
// the Document it manipulates.
// - Errors: a missing template or header turns the affected operation into a
// no-op; storage failures are logged and ignored.
type Coordinator struct {
	cfg     Config
	doc     *dom.Document
	fixture *Fixture
}

// New creates a Coordinator.
func New(cfg Config) (*Coordinator, error) {
	if cfg.Document == nil {
		return nil, fmt.Errorf("scaffold: Document is required")
	}
	cfg.applyDefaults()
	return &Coordinator{cfg: cfg, doc: cfg.Document}, nil
}

// Init performs the page-load work: it wires a fixture already present in the
// markup, disables the generator in that case, and installs the generator's
// click handler.
func (c *Coordinator) Init() {
	if wrapper := c.doc.GetElementByID(c.cfg.WrapperID); wrapper != nil {
		c.handle(wrapper)
		c.DisableGenerator()
	}

	actions, _ := c.doc.QuerySelector(".mini-website-actions")
	if actions == nil || !c.hasTemplate() {
		return
	}
	c.doc.AddEventListener(actions, "click", func(ev *dom.Event) {
		trigger, _ := dom.Closest(ev.Target, "#"+c.cfg.GeneratorID)
		if trigger == nil || dom.HasAttr(trigger, "disabled") {
			return
		}
		c.Generate()
	})
}

// FixtureExists reports whether the fixture is attached to the page.
func (c *Coordinator) FixtureExists() bool {
	return c.doc.GetElementByID(c.cfg.WrapperID) != nil
}

// Fixture returns the handle of the attached fixture, or nil.
func (c *Coordinator) Fixture() *Fixture {
	wrapper := c.doc.GetElementByID(c.cfg.WrapperID)
	if wrapper == nil {
		return nil
	}
	return c.handle(wrapper)
}

// EnsureFixture returns the fixture, creating it from the template if it is
// absent. Creating it also disables the generator. It returns nil when the
// template or its wrapper element is missing.
func (c *Coordinator) EnsureFixture() *Fixture {
	if wrapper := c.doc.GetElementByID(c.cfg.WrapperID); wrapper != nil {
		return c.handle(wrapper)
	}

	nodes, ok := c.doc.TemplateContent(c.cfg.TemplateID)
	if !ok {
		return nil
	}
	body := c.doc.Body()
	if body == nil {
		return nil
	}
	wrapper := dom.Find(nodes, dom.ByID(c.cfg.WrapperID))
	dom.Append(body, nodes...)
	if wrapper == nil {
		return nil
	}

	f := c.handle(wrapper)
	c.DisableGenerator()
	return f
}

// SpawnFixture ensures the fixture exists and disables the generator. It
// reports whether a fixture is now attached.
func (c *Coordinator) SpawnFixture() bool {
	f := c.EnsureFixture()
	c.DisableGenerator()
	return f != nil
}

// Generate is the generator button's action: it does nothing while the
// button is disabled, otherwise it spawns the fixture and disables the button.
func (c *Coordinator) Generate() bool {
	if btn := c.generator(); btn != nil && dom.HasAttr(btn, "disabled") {
		return false
	}
	if c.EnsureFixture() == nil {
		return false
	}
	c.DisableGenerator()
	return true
}

// DisableGenerator turns the generator button into its "ready" state.
func (c *Coordinator) DisableGenerator() {
	btn := c.generator()
	if btn == nil {
		return
	}
	dom.SetBoolAttr(btn, "disabled", true)
	dom.AddClass(btn, "is-disabled")
	dom.SetAttr(btn, "aria-disabled", "true")
	dom.SetTextContent(btn, GeneratorReadyLabel)
}

// GeneratorDisabled reports whether the generator button is disabled.
func (c *Coordinator) GeneratorDisabled() bool {
	btn := c.generator()
	return btn != nil && dom.HasAttr(btn, "disabled")
}

func (c *Coordinator) generator() *html.Node {
	return c.doc.GetElementByID(c.cfg.GeneratorID)
}

func (c *Coordinator) hasTemplate() bool {
	tpl := c.doc.GetElementByID(c.cfg.TemplateID)
	return tpl != nil && tpl.Data == "template"
}

// handle returns the cached handle for wrapper, wiring it on first use.
func (c *Coordinator) handle(wrapper *html.Node) *Fixture {
	if c.fixture == nil || c.fixture.wrapper != wrapper {
		c.fixture = &Fixture{c: c, wrapper: wrapper}
	}
	c.fixture.initialize()
	return c.fixture
}

func (c *Coordinator) loadPosition() (Point, bool) {
	raw, ok, err := c.cfg.Storage.GetItem(PositionKey)
	if err != nil {
		c.cfg.Logger.Warn("Unable to load mini website position from storage", "error", err)
		return Point{}, false
	}
	if !ok {
		return Point{}, false
	}
	var saved struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		c.cfg.Logger.Warn("Unable to load mini website position from storage", "error", err)
		return Point{}, false
	}
	if saved.X == nil || saved.Y == nil || !finite(*saved.X) || !finite(*saved.Y) {
		return Point{}, false
	}
	return Point{X: *saved.X, Y: *saved.Y}, true
}

func (c *Coordinator) savePosition(p Point) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.cfg.Storage.SetItem(PositionKey, string(data)); err != nil {
		c.cfg.Logger.Warn("Unable to save mini website position", "error", err)
	}
}

// clamp keeps p inside the viewport, leaving the edge margin free.
func (c *Coordinator) clamp(p Point) Point {
	vp := c.cfg.Viewport()
	maxX := math.Max(vp.Width-c.cfg.FixtureSize.Width-edgeMargin, 0)
	maxY := math.Max(vp.Height-c.cfg.FixtureSize.Height-edgeMargin, 0)
	return Point{
		X: math.Min(math.Max(p.X, 0), maxX),
		Y: math.Min(math.Max(p.Y, 0), maxY),
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func px(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64) + "px"
}
