package scaffold

import (
	"golang.org/x/net/html"

	"github.com/jonwraymond/playground/dom"
)

// Fixture is the handle of the attached mini website.
type Fixture struct {
	c       *Coordinator
	wrapper *html.Node

	header   *html.Node
	closeBtn *html.Node
	site     *html.Node
	content  *html.Node

	pos       Point
	grab      Point
	dragging  bool
	minimized bool
}

// Wrapper returns the fixture's root element.
func (f *Fixture) Wrapper() *html.Node { return f.wrapper }

// Site returns the #mini-website element, or nil.
func (f *Fixture) Site() *html.Node { return f.site }

// Position returns the current top-left position.
func (f *Fixture) Position() Point { return f.pos }

// Minimized reports whether the fixture content is collapsed.
func (f *Fixture) Minimized() bool { return f.minimized }

// Wired reports whether drag and minimize handling is installed.
func (f *Fixture) Wired() bool {
	v, _ := dom.Attr(f.wrapper, "data-initialized")
	return v == "true"
}

// initialize installs the wiring once; the data-initialized attribute on the
// wrapper is the guard.
func (f *Fixture) initialize() {
	if f.wrapper == nil || f.Wired() {
		return
	}

	f.header, _ = dom.QuerySelector(f.wrapper, ".demo-header")
	f.closeBtn, _ = dom.QuerySelector(f.wrapper, ".demo-close")
	f.site, _ = dom.QuerySelector(f.wrapper, "#mini-website")
	f.content, _ = dom.QuerySelector(f.wrapper, ".mini-website-content")
	if f.header == nil || f.site == nil {
		return
	}

	dom.SetAttr(f.wrapper, "data-initialized", "true")
	f.minimized = dom.HasClass(f.site, "is-minimized")

	if saved, ok := f.c.loadPosition(); ok {
		clamped := f.c.clamp(saved)
		f.pos = clamped
		f.apply()
		if clamped != saved {
			f.c.savePosition(clamped)
		}
	}

	doc := f.c.doc
	doc.AddEventListener(f.header, "mousedown", func(ev *dom.Event) {
		if f.BeginDrag(ev.Target, Point{X: float64(ev.ClientX), Y: float64(ev.ClientY)}) {
			ev.PreventDefault()
		}
	})
	doc.AddEventListener(doc.Root(), "mousemove", func(ev *dom.Event) {
		if f.dragging {
			f.DragTo(Point{X: float64(ev.ClientX), Y: float64(ev.ClientY)})
			ev.PreventDefault()
		}
	})
	doc.AddEventListener(doc.Root(), "mouseup", func(*dom.Event) {
		f.EndDrag()
	})
	if f.closeBtn != nil {
		doc.AddEventListener(f.closeBtn, "click", func(ev *dom.Event) {
			ev.StopPropagation()
			f.ToggleMinimized()
		})
	}
}

// BeginDrag starts a drag grabbed at pointer. Presses on the minimize button
// do not start a drag. It reports whether a drag started.
func (f *Fixture) BeginDrag(target *html.Node, pointer Point) bool {
	if !f.Wired() {
		return false
	}
	if target != nil {
		if btn, _ := dom.Closest(target, ".demo-close"); btn != nil {
			return false
		}
	}
	f.dragging = true
	f.grab = Point{X: pointer.X - f.pos.X, Y: pointer.Y - f.pos.Y}
	return true
}

// DragTo moves the fixture so the grab point follows pointer.
func (f *Fixture) DragTo(pointer Point) {
	if !f.dragging {
		return
	}
	f.pos = Point{X: pointer.X - f.grab.X, Y: pointer.Y - f.grab.Y}
	f.apply()
}

// EndDrag finishes a drag and persists the position.
func (f *Fixture) EndDrag() {
	if !f.dragging {
		return
	}
	f.dragging = false
	f.c.savePosition(f.pos)
}

// MoveBy drags the fixture by a relative offset in one step.
func (f *Fixture) MoveBy(dx, dy float64) {
	start := f.pos
	if !f.BeginDrag(nil, start) {
		return
	}
	f.DragTo(Point{X: start.X + dx, Y: start.Y + dy})
	f.EndDrag()
}

// ToggleMinimized collapses or expands the fixture content.
func (f *Fixture) ToggleMinimized() {
	if f.site == nil {
		return
	}
	f.minimized = !f.minimized
	if f.minimized {
		dom.AddClass(f.site, "is-minimized")
		if f.content != nil {
			dom.SetBoolAttr(f.content, "hidden", true)
		}
		f.labelCloseButton("+", "Expand", "Expand mini website", "false")
		dom.SetAttr(f.site, "aria-expanded", "false")
		return
	}
	dom.RemoveClass(f.site, "is-minimized")
	if f.content != nil {
		dom.SetBoolAttr(f.content, "hidden", false)
	}
	f.labelCloseButton("−", "Minimize", "Minimize mini website", "true")
	dom.SetAttr(f.site, "aria-expanded", "true")
}

func (f *Fixture) labelCloseButton(text, title, label, expanded string) {
	if f.closeBtn == nil {
		return
	}
	dom.SetTextContent(f.closeBtn, text)
	dom.SetAttr(f.closeBtn, "title", title)
	dom.SetAttr(f.closeBtn, "aria-label", label)
	dom.SetAttr(f.closeBtn, "aria-expanded", expanded)
}

func (f *Fixture) apply() {
	dom.SetStyleProperty(f.wrapper, "left", px(f.pos.X))
	dom.SetStyleProperty(f.wrapper, "top", px(f.pos.Y))
	dom.SetStyleProperty(f.wrapper, "right", "auto")
}
