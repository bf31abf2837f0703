package dom

import "golang.org/x/net/html"

// Event is a DOM event travelling from its target up to the document.
type Event struct {
	// Type is the event name, such as "click" or "keydown".
	Type string

	// Target is the node the event was dispatched on.
	Target *html.Node

	// CurrentTarget is the node whose listeners are running.
	CurrentTarget *html.Node

	// ClientX and ClientY are pointer coordinates for pointer events.
	ClientX int
	ClientY int

	// Key is the key value for keyboard events.
	Key string

	// CtrlKey and MetaKey report modifier state.
	CtrlKey bool
	MetaKey bool

	defaultPrevented bool
	stopped          bool
}

// PreventDefault marks the default action as cancelled.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation keeps the event from reaching further ancestors.
func (e *Event) StopPropagation() { e.stopped = true }

// Listener handles an event.
type Listener func(*Event)

type listener struct {
	typ string
	fn  Listener
}

// AddEventListener registers fn for events of type typ reaching target.
// Pass Root() to listen on the document.
func (d *Document) AddEventListener(target *html.Node, typ string, fn Listener) {
	if target == nil || fn == nil {
		return
	}
	d.listeners[target] = append(d.listeners[target], listener{typ: typ, fn: fn})
}

// ListenerCount returns how many listeners are registered on target.
func (d *Document) ListenerCount(target *html.Node) int {
	return len(d.listeners[target])
}

// Dispatch delivers ev to target and then to each ancestor up to the document
// node, stopping early if a listener calls StopPropagation. It returns false
// if a listener prevented the default action.
func (d *Document) Dispatch(target *html.Node, ev *Event) bool {
	if target == nil || ev == nil {
		return true
	}
	ev.Target = target
	var path []*html.Node
	for n := target; n != nil; n = n.Parent {
		path = append(path, n)
	}
	for _, n := range path {
		registered := append([]listener(nil), d.listeners[n]...)
		ev.CurrentTarget = n
		for _, l := range registered {
			if l.typ == ev.Type {
				l.fn(ev)
			}
		}
		if ev.stopped {
			break
		}
	}
	ev.CurrentTarget = nil
	return !ev.defaultPrevented
}
